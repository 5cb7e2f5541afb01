package nft

import (
	"encoding/json"

	"github.com/holiman/uint256"
)

const (
	gasForNftOnTransfer     = 25
	gasForResolveTransfer   = 5
	gasForNftOnApprove      = 10
	methodResolveTransfer   = "nft_resolve_transfer"
	methodResolveCreate     = "resolve_create"
	receiverMethodOnApprove = "nft_on_approve"
)

type transferCallArgs struct {
	SenderId        string `json:"sender_id"`
	PreviousOwnerId string `json:"previous_owner_id"`
	TokenId         string `json:"token_id"`
	Msg             string `json:"msg"`
}

type resolveTransferArgs struct {
	PreviousOwnerId    string            `json:"previous_owner_id"`
	ReceiverId         string            `json:"receiver_id"`
	TokenId            string            `json:"token_id"`
	ApprovedAccountIds map[string]uint64 `json:"approved_account_ids,omitempty"`
}

// internalTransfer moves a token on behalf of sender, who must be the owner
// or an approved account, and keeps the holder registry in step. It returns
// the previous owner and the approvals that were cleared.
func (c *Contract) internalTransfer(call *Call, st State, sender, receiver, tokenId string, approvalId *uint64, memo string) (string, map[string]uint64, error) {
	token, err := st.ReadToken(tokenId)
	if err != nil {
		return "", nil, err
	}
	if token == nil {
		return "", nil, ErrTokenNotFound
	}
	owner := token.OwnerId
	authorized := ""
	if sender != owner {
		id, ok := token.ApprovedAccountIds[sender]
		if !ok {
			return "", nil, ErrUnauthorized
		}
		if approvalId != nil && *approvalId != id {
			return "", nil, ErrApprovalMismatch
		}
		authorized = sender
	}
	if owner == receiver {
		return "", nil, ErrSelfTransfer
	}
	err = ValidateAccountId(receiver)
	if err != nil {
		return "", nil, err
	}

	err = c.beforeTransfer(st, owner, receiver)
	if err != nil {
		return "", nil, err
	}
	approvals := token.ApprovedAccountIds
	token.OwnerId = receiver
	token.ApprovedAccountIds = map[string]uint64{}
	err = st.WriteToken(token)
	if err != nil {
		return "", nil, err
	}
	call.log(transferEvent(authorized, owner, receiver, tokenId, memo))
	return owner, approvals, nil
}

func (c *Contract) NftTransfer(call *Call, receiverId, tokenId string, approvalId *uint64, memo string) error {
	return c.execute(call, func(st State) error {
		err := call.assertOneYocto()
		if err != nil {
			return err
		}
		_, _, err = c.internalTransfer(call, st, call.Predecessor, receiverId, tokenId, approvalId, memo)
		return err
	})
}

// NftTransferCall transfers the token and notifies the receiver, which may
// ask for the token back by answering true. nft_resolve_transfer settles the
// outcome.
func (c *Contract) NftTransferCall(call *Call, receiverId, tokenId string, approvalId *uint64, memo, msg string) error {
	return c.execute(call, func(st State) error {
		err := call.assertOneYocto()
		if err != nil {
			return err
		}
		previous, approvals, err := c.internalTransfer(call, st, call.Predecessor, receiverId, tokenId, approvalId, memo)
		if err != nil {
			return err
		}
		notify := call.promise(receiverId).FunctionCall("nft_on_transfer", mustMarshal(transferCallArgs{
			SenderId:        call.Predecessor,
			PreviousOwnerId: previous,
			TokenId:         tokenId,
			Msg:             msg,
		}), "0", gasForNftOnTransfer)
		call.promise(c.conf.AccountId).FunctionCall(methodResolveTransfer, mustMarshal(resolveTransferArgs{
			PreviousOwnerId:    previous,
			ReceiverId:         receiverId,
			TokenId:            tokenId,
			ApprovedAccountIds: approvals,
		}), "0", gasForResolveTransfer).After(notify)
		return nil
	})
}

// resolveTransfer returns true when the token stays with the receiver. The
// token goes back to the previous owner when the receiver failed or asked
// for it back, unless it was moved or burned in the meantime.
func (c *Contract) resolveTransfer(call *Call, st State, args *resolveTransferArgs, returned bool) (bool, error) {
	if call.Predecessor != c.conf.AccountId {
		return false, ErrPrivateMethod
	}
	if !returned {
		return true, nil
	}
	token, err := st.ReadToken(args.TokenId)
	if err != nil {
		return false, err
	}
	if token == nil || token.OwnerId != args.ReceiverId {
		return true, nil
	}

	err = c.beforeTransfer(st, args.ReceiverId, args.PreviousOwnerId)
	if err != nil {
		return false, err
	}
	token.OwnerId = args.PreviousOwnerId
	token.ApprovedAccountIds = args.ApprovedAccountIds
	if token.ApprovedAccountIds == nil {
		token.ApprovedAccountIds = map[string]uint64{}
	}
	err = st.WriteToken(token)
	if err != nil {
		return false, err
	}
	call.log(transferEvent("", args.ReceiverId, args.PreviousOwnerId, args.TokenId, ""))
	return false, nil
}

// receiverReturnedToken reads the answer of nft_on_transfer. A failed or
// unreadable answer counts as a request to return the token.
func receiverReturnedToken(result []byte, ok bool) bool {
	if !ok {
		return true
	}
	var returned bool
	if err := json.Unmarshal(result, &returned); err != nil {
		return true
	}
	return returned
}

// NftTransferPayout transfers the token and reports the royalty split of
// balance between the collection owner and the seller.
func (c *Contract) NftTransferPayout(call *Call, receiverId, tokenId string, approvalId *uint64, balance *uint256.Int) (*Payout, error) {
	var payout *Payout
	err := c.execute(call, func(st State) error {
		err := call.assertOneYocto()
		if err != nil {
			return err
		}
		previous, _, err := c.internalTransfer(call, st, call.Predecessor, receiverId, tokenId, approvalId, "")
		if err != nil || balance == nil {
			return err
		}
		payout, err = ComputeSalePayout(c.conf.OwnerId, previous, c.conf.Royalty, balance)
		return err
	})
	return payout, err
}

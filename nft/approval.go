package nft

type onApproveArgs struct {
	TokenId    string `json:"token_id"`
	OwnerId    string `json:"owner_id"`
	ApprovalId uint64 `json:"approval_id"`
	Msg        string `json:"msg"`
}

// NftApprove lets accountId transfer the caller's token. When msg is given
// the approved account is notified through nft_on_approve.
func (c *Contract) NftApprove(call *Call, tokenId, accountId string, msg *string) (uint64, error) {
	var approvalId uint64
	err := c.execute(call, func(st State) error {
		err := call.assertAtLeastOneYocto()
		if err != nil {
			return err
		}
		err = ValidateAccountId(accountId)
		if err != nil {
			return err
		}
		token, err := c.ownedToken(st, call.Predecessor, tokenId)
		if err != nil {
			return err
		}
		approvalId = token.NextApprovalId
		token.ApprovedAccountIds[accountId] = approvalId
		token.NextApprovalId += 1
		err = st.WriteToken(token)
		if err != nil {
			return err
		}
		if msg != nil {
			call.promise(accountId).FunctionCall(receiverMethodOnApprove, mustMarshal(onApproveArgs{
				TokenId:    tokenId,
				OwnerId:    token.OwnerId,
				ApprovalId: approvalId,
				Msg:        *msg,
			}), "0", gasForNftOnApprove)
		}
		return nil
	})
	return approvalId, err
}

func (c *Contract) NftRevoke(call *Call, tokenId, accountId string) error {
	return c.execute(call, func(st State) error {
		err := call.assertOneYocto()
		if err != nil {
			return err
		}
		token, err := c.ownedToken(st, call.Predecessor, tokenId)
		if err != nil {
			return err
		}
		if _, ok := token.ApprovedAccountIds[accountId]; !ok {
			return nil
		}
		delete(token.ApprovedAccountIds, accountId)
		return st.WriteToken(token)
	})
}

func (c *Contract) NftRevokeAll(call *Call, tokenId string) error {
	return c.execute(call, func(st State) error {
		err := call.assertOneYocto()
		if err != nil {
			return err
		}
		token, err := c.ownedToken(st, call.Predecessor, tokenId)
		if err != nil {
			return err
		}
		if len(token.ApprovedAccountIds) == 0 {
			return nil
		}
		token.ApprovedAccountIds = map[string]uint64{}
		return st.WriteToken(token)
	})
}

func (c *Contract) NftIsApproved(tokenId, approvedAccountId string, approvalId *uint64) (bool, error) {
	var approved bool
	err := c.view(func(st State) error {
		token, err := st.ReadToken(tokenId)
		if err != nil {
			return err
		}
		if token == nil {
			return ErrTokenNotFound
		}
		id, ok := token.ApprovedAccountIds[approvedAccountId]
		approved = ok && (approvalId == nil || *approvalId == id)
		return nil
	})
	return approved, err
}

func (c *Contract) ownedToken(st State, owner, tokenId string) (*Token, error) {
	token, err := st.ReadToken(tokenId)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, ErrTokenNotFound
	}
	if token.OwnerId != owner {
		return nil, ErrNotOwner
	}
	if token.ApprovedAccountIds == nil {
		token.ApprovedAccountIds = map[string]uint64{}
	}
	return token, nil
}

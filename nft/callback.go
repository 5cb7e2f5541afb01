package nft

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MixinNetwork/vaultnft/dispatch"
)

// ProcessCallback runs a callback the contract scheduled to itself. It is
// invoked by the dispatcher once the transaction the callback waited for has
// settled, whatever its outcome.
func (c *Contract) ProcessCallback(ctx context.Context, tx *dispatch.Transaction, dep *dispatch.Transaction) error {
	call := &Call{
		Id:          tx.TraceId,
		Predecessor: c.conf.AccountId,
		Gas:         tx.Gas(),
		callback:    tx,
	}
	switch tx.Method() {
	case methodResolveCreate:
		var args resolveCreateArgs
		err := json.Unmarshal(tx.Args(), &args)
		if err != nil {
			return err
		}
		ownerAmount, err := ParseAmount(args.OwnerAmount)
		if err != nil {
			return err
		}
		vaultAmount, err := ParseAmount(args.VaultAmount)
		if err != nil {
			return err
		}
		return c.ResolveCreate(call, args.VaultAccountId, args.CollectionOwner, ownerAmount, vaultAmount)
	case methodResolveTransfer:
		var args resolveTransferArgs
		err := json.Unmarshal(tx.Args(), &args)
		if err != nil {
			return err
		}
		returned := true
		if dep != nil {
			returned = receiverReturnedToken(dep.Result, dep.State == dispatch.TransactionStateDone)
		}
		_, err = c.NftResolveTransfer(call, args.PreviousOwnerId, args.ReceiverId, args.TokenId, args.ApprovedAccountIds, returned)
		return err
	}
	return fmt.Errorf("%w: %s", ErrUnknownCallback, tx.Method())
}

// NftResolveTransfer settles a transfer call. returned tells whether the
// receiver failed or asked for the token back.
func (c *Contract) NftResolveTransfer(call *Call, previousOwnerId, receiverId, tokenId string, approvals map[string]uint64, returned bool) (bool, error) {
	args := &resolveTransferArgs{
		PreviousOwnerId:    previousOwnerId,
		ReceiverId:         receiverId,
		TokenId:            tokenId,
		ApprovedAccountIds: approvals,
	}
	var kept bool
	err := c.execute(call, func(st State) (err error) {
		kept, err = c.resolveTransfer(call, st, args, returned)
		if err != nil {
			return err
		}
		call.result = mustMarshal(kept)
		return nil
	})
	return kept, err
}

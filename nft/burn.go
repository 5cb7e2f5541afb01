package nft

import (
	"github.com/MixinNetwork/mixin/logger"
	"github.com/holiman/uint256"
)

const gasForVaultWithdraw = 100

type vaultWithdrawArgs struct {
	Owner   string `json:"owner"`
	BurnFee string `json:"burn_fee"`
}

// Burn destroys a token owned by the caller, credits the burn dividend to
// every other holder and asks the token's vault to pay out.
func (c *Contract) Burn(call *Call, tokenId string) error {
	return c.execute(call, func(st State) error {
		owner := call.Predecessor
		token, err := st.ReadToken(tokenId)
		if err != nil {
			return err
		}
		if token == nil {
			return ErrTokenNotFound
		}
		if token.OwnerId != owner {
			return ErrNotOwner
		}
		vault, err := VaultAccountId(tokenId, c.conf.AccountId)
		if err != nil {
			return err
		}

		err = st.DeleteToken(tokenId)
		if err != nil {
			return err
		}
		removed, err := c.afterBurn(st, owner)
		if err != nil {
			return err
		}

		count, err := st.CountHolders()
		if err != nil {
			return err
		}
		holders := uint64(count)
		if !removed && holders > 0 {
			holders -= 1
		}
		amount, err := BurnDividend(c.conf.MintPrice, c.conf.PaymentSplitPercent, c.conf.BurnFee, holders)
		if err != nil {
			return err
		}
		call.log("Total holders count: %d", holders)
		call.log("Amount to each holder: %s", amount.Dec())

		err = c.creditHolders(st, owner, amount)
		if err != nil {
			return err
		}

		call.promise(vault).FunctionCall(VaultMethodWithdraw, mustMarshal(vaultWithdrawArgs{
			Owner:   owner,
			BurnFee: c.conf.BurnFee.Dec(),
		}), "1", gasForVaultWithdraw)
		call.log(burnEvent(owner, tokenId))
		logger.Verbosef("Contract.Burn(%s, %s) => %d holders %s each\n", owner, tokenId, holders, amount.Dec())
		return nil
	})
}

func (c *Contract) creditHolders(st State, owner string, amount *uint256.Int) error {
	if amount.IsZero() {
		return nil
	}
	holders, err := st.ListHolders()
	if err != nil {
		return err
	}
	for _, h := range holders {
		if h == owner {
			continue
		}
		_, err = c.addBalance(st, BookPayouts, h, amount)
		if err != nil {
			return err
		}
	}
	return nil
}

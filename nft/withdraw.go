package nft

import (
	"github.com/MixinNetwork/mixin/logger"
	"github.com/holiman/uint256"
)

const gasForWithdrawTransfer = 20

// Withdraw pays out the caller's accumulated dividends. The ledger entry is
// zeroed in the same call that schedules the transfer; if the transfer later
// fails the funds are not restored.
func (c *Contract) Withdraw(call *Call) error {
	return c.execute(call, func(st State) error {
		owner := call.Predecessor
		balance, err := st.ReadBalance(BookPayouts, owner)
		if err != nil || balance.IsZero() {
			return err
		}
		if ft := c.conf.MintCurrency; ft != "" {
			call.promise(ft).FunctionCall("ft_transfer", mustMarshal(map[string]string{
				"receiver_id": owner,
				"amount":      balance.Dec(),
			}), "1", gasForWithdrawTransfer)
		} else {
			call.promise(owner).Transfer(balance.Dec())
		}
		logger.Verbosef("Contract.Withdraw(%s) => %s\n", owner, balance.Dec())
		return st.WriteBalance(BookPayouts, owner, new(uint256.Int))
	})
}

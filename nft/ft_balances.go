package nft

import (
	"github.com/MixinNetwork/mixin/logger"
	"github.com/holiman/uint256"
)

// FtOnTransfer is the notification sent by the mint currency contract when
// senderId transfers amount to this contract. The whole amount is kept as a
// mint deposit and the unused amount returned to the currency contract is 0.
//
// Deposits are never decremented by a mint.
func (c *Contract) FtOnTransfer(call *Call, senderId string, amount *uint256.Int, msg string) (*uint256.Int, error) {
	err := c.execute(call, func(st State) error {
		if c.conf.MintCurrency == "" || call.Predecessor != c.conf.MintCurrency {
			return ErrCurrencyNotAllowed
		}
		err := ValidateAccountId(senderId)
		if err != nil {
			return err
		}
		balance, err := c.addBalance(st, BookDeposits, senderId, amount)
		if err != nil {
			return err
		}
		call.result = []byte(`"0"`)
		logger.Verbosef("Contract.FtOnTransfer(%s, %s, %s) => %s\n", senderId, amount.Dec(), msg, balance.Dec())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return new(uint256.Int), nil
}

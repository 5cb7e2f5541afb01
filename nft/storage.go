package nft

import (
	"fmt"
)

// StorageDeposit prepays storage for accountId, or for the caller when
// accountId is empty. The contract only accumulates these deposits.
func (c *Contract) StorageDeposit(call *Call, accountId string) error {
	return c.execute(call, func(st State) error {
		if accountId == "" {
			accountId = call.Predecessor
		}
		err := ValidateAccountId(accountId)
		if err != nil {
			return err
		}
		if call.Deposit.Lt(StoragePerSale) {
			return fmt.Errorf("%w: requires minimum deposit of %s", ErrMinimumDeposit, StoragePerSale.Dec())
		}
		_, err = c.addBalance(st, BookStorage, accountId, call.Deposit)
		return err
	})
}

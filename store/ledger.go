package store

import (
	"fmt"

	"github.com/MixinNetwork/vaultnft/nft"
	"github.com/holiman/uint256"
)

const prefixLedgerBalance = "LEDGER:"

func (s *badgerState) ReadBalance(book nft.Book, account string) (*uint256.Int, error) {
	val, err := readValue(s.txn, ledgerKey(book, account))
	if err != nil {
		return nil, err
	}
	if val != nil && len(val) != 16 {
		panic(fmt.Errorf("malformed %s balance of %s", book, account))
	}
	return new(uint256.Int).SetBytes(val), nil
}

// WriteBalance stores amount as 16 big endian bytes; a zero amount removes
// the entry.
func (s *badgerState) WriteBalance(book nft.Book, account string, amount *uint256.Int) error {
	key := ledgerKey(book, account)
	if amount.IsZero() {
		return s.txn.Delete(key)
	}
	if amount.BitLen() > 128 {
		panic(amount.Dec())
	}
	b := amount.Bytes32()
	return s.txn.Set(key, b[16:])
}

func ledgerKey(book nft.Book, account string) []byte {
	return []byte(prefixLedgerBalance + string(book) + ":" + account)
}

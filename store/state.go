package store

import (
	"github.com/MixinNetwork/vaultnft/nft"
	"github.com/dgraph-io/badger/v4"
)

// badgerState is the view of the ledgers a single contract call works on.
// Everything it writes commits or is discarded together.
type badgerState struct {
	txn *badger.Txn
}

func (bs *BadgerStore) Update(fn func(nft.State) error) error {
	return bs.db.Update(func(txn *badger.Txn) error {
		return fn(&badgerState{txn: txn})
	})
}

func (bs *BadgerStore) View(fn func(nft.State) error) error {
	return bs.db.View(func(txn *badger.Txn) error {
		return fn(&badgerState{txn: txn})
	})
}

func (s *badgerState) ReadProperty(key string) ([]byte, error) {
	return readValue(s.txn, []byte(key))
}

func (s *badgerState) WriteProperty(key string, val []byte) error {
	return s.txn.Set([]byte(key), val)
}

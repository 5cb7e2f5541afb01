package store

import (
	"github.com/MixinNetwork/mixin/common"
	"github.com/MixinNetwork/vaultnft/dispatch"
	"github.com/dgraph-io/badger/v4"
)

const (
	prefixTransactionPayload = "TRANSACTION:PAYLOAD:"
	prefixTransactionState   = "TRANSACTION:STATE:"
)

func (bs *BadgerStore) WriteTransaction(tx *dispatch.Transaction) error {
	return bs.db.Update(func(txn *badger.Txn) error {
		return writeTransaction(txn, tx)
	})
}

func (bs *BadgerStore) ReadTransaction(traceId string) (*dispatch.Transaction, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	return readTransaction(txn, traceId)
}

// ListTransactions returns the transactions in state by creation order.
func (bs *BadgerStore) ListTransactions(state int, limit int) ([]*dispatch.Transaction, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	keys := listKeys(txn, []byte(transactionStatePrefix(state)), 0, limit)
	txs := make([]*dispatch.Transaction, 0, len(keys))
	for _, k := range keys {
		tx, err := readTransaction(txn, k[8:])
		if err != nil {
			return nil, err
		}
		if tx == nil {
			panic(k[8:])
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func (s *badgerState) ReadTransaction(traceId string) (*dispatch.Transaction, error) {
	return readTransaction(s.txn, traceId)
}

func (s *badgerState) WriteTransaction(tx *dispatch.Transaction) error {
	return writeTransaction(s.txn, tx)
}

func writeTransaction(txn *badger.Txn, tx *dispatch.Transaction) error {
	err := resetOldTransaction(txn, tx)
	if err != nil {
		return err
	}
	key := []byte(prefixTransactionPayload + tx.TraceId)
	val := common.MsgpackMarshalPanic(tx)
	err = txn.Set(key, val)
	if err != nil {
		return err
	}

	key = buildTransactionTimedKey(tx)
	return txn.Set(key, []byte{1})
}

func readTransaction(txn *badger.Txn, traceId string) (*dispatch.Transaction, error) {
	val, err := readValue(txn, []byte(prefixTransactionPayload+traceId))
	if err != nil || val == nil {
		return nil, err
	}
	var tx dispatch.Transaction
	err = common.MsgpackUnmarshal(val, &tx)
	return &tx, err
}

func resetOldTransaction(txn *badger.Txn, tx *dispatch.Transaction) error {
	old, err := readTransaction(txn, tx.TraceId)
	if err != nil || old == nil {
		return err
	}
	if old.State == tx.State {
		return nil
	}
	if old.Settled() {
		panic(tx.TraceId)
	}

	key := buildTransactionTimedKey(old)
	return txn.Delete(key)
}

func buildTransactionTimedKey(tx *dispatch.Transaction) []byte {
	prefix := transactionStatePrefix(tx.State)
	key := append([]byte(prefix), tsToBytes(tx.CreatedAt)...)
	return append(key, []byte(tx.TraceId)...)
}

func transactionStatePrefix(state int) string {
	prefix := prefixTransactionState
	switch state {
	case dispatch.TransactionStateInitial:
		return prefix + "initiall"
	case dispatch.TransactionStateSent:
		return prefix + "senttttt"
	case dispatch.TransactionStateDone:
		return prefix + "doneeeee"
	case dispatch.TransactionStateFailed:
		return prefix + "faileddd"
	}
	panic(state)
}

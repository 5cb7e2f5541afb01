package dispatch

import (
	"context"
	"time"
)

type Store interface {
	WriteProperty(key, val []byte) error
	ReadProperty(key []byte) ([]byte, error)

	WriteTransaction(tx *Transaction) error
	ReadTransaction(traceId string) (*Transaction, error)
	ListTransactions(state int, limit int) ([]*Transaction, error)
}

// Invoker submits transactions to the platform and reports their receipts.
// ReadReceipts returns receipts updated strictly after offset, oldest first.
type Invoker interface {
	SendTransaction(ctx context.Context, tx *Transaction) error
	ReadReceipts(ctx context.Context, offset time.Time, limit int) ([]*Receipt, error)
}

// Worker executes callbacks addressed to the contract itself. dep is the
// settled transaction the callback waited for, or nil. On success the worker
// must persist tx as settled in the same write that commits the effects of
// the callback; on error the dispatcher marks tx failed.
type Worker interface {
	ProcessCallback(ctx context.Context, tx *Transaction, dep *Transaction) error
}

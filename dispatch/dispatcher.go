package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/MixinNetwork/mixin/logger"
)

// Dispatcher drives the outbox. Transactions are sent at most once; a failed
// step is recorded and never retried, and callbacks addressed to the contract
// run whether or not the transaction they depend on succeeded.
type Dispatcher struct {
	store   Store
	invoker Invoker
	clock   *Clock
	worker  Worker
	metrics *Metrics

	account  string
	batch    int
	interval time.Duration
}

func NewDispatcher(store Store, invoker Invoker, clock *Clock, account string, conf *Configuration) (*Dispatcher, error) {
	if account == "" {
		return nil, fmt.Errorf("invalid dispatcher account %s", account)
	}
	interval, err := conf.PollInterval()
	if err != nil {
		return nil, err
	}
	batch := conf.Batch
	if batch <= 0 {
		batch = 100
	}
	return &Dispatcher{
		store:    store,
		invoker:  invoker,
		clock:    clock,
		metrics:  DispatchMetrics(),
		account:  account,
		batch:    batch,
		interval: interval,
	}, nil
}

func (d *Dispatcher) SetWorker(wkr Worker) {
	d.worker = wkr
}

func (d *Dispatcher) Run(ctx context.Context) {
	for ctx.Err() == nil {
		if d.Tick(ctx) > 0 {
			continue
		}
		select {
		case <-ctx.Done():
		case <-time.After(d.interval):
		}
	}
}

// Tick drains pending receipts and then handles every initial transaction
// whose dependency has settled. It returns the number of transactions that
// left the initial state.
func (d *Dispatcher) Tick(ctx context.Context) int {
	d.drainReceipts(ctx, d.batch)
	return d.handleTransactions(ctx)
}

func (d *Dispatcher) handleTransactions(ctx context.Context) int {
	txs, err := d.store.ListTransactions(TransactionStateInitial, d.batch)
	if err != nil {
		logger.Printf("ListTransactions(initial, %d) => %v\n", d.batch, err)
		return 0
	}

	var handled int
	for _, tx := range txs {
		var dep *Transaction
		if tx.DependsOn != "" {
			dep, err = d.store.ReadTransaction(tx.DependsOn)
			if err != nil {
				logger.Printf("ReadTransaction(%s) => %v\n", tx.DependsOn, err)
				return handled
			}
			if dep == nil {
				panic(tx.DependsOn)
			}
			if !dep.Settled() {
				continue
			}
		}

		switch {
		case tx.Receiver == d.account:
			d.runCallback(ctx, tx, dep)
		case dep != nil && dep.State == TransactionStateFailed:
			d.finishTransaction(tx, TransactionStateFailed, []byte("dependency failed"))
		default:
			d.sendTransaction(ctx, tx)
		}
		handled++
	}
	return handled
}

func (d *Dispatcher) runCallback(ctx context.Context, tx, dep *Transaction) {
	if d.worker == nil {
		panic(tx.TraceId)
	}
	err := d.worker.ProcessCallback(ctx, tx, dep)
	d.metrics.ObserveCallback(tx.Method(), err)
	if err != nil {
		logger.Printf("ProcessCallback(%s, %s) => %v\n", tx.TraceId, tx.Method(), err)
		d.finishTransaction(tx, TransactionStateFailed, []byte(err.Error()))
		return
	}
	logger.Verbosef("Dispatcher.runCallback(%s, %s) => done\n", tx.TraceId, tx.Method())
}

func (d *Dispatcher) sendTransaction(ctx context.Context, tx *Transaction) {
	err := d.invoker.SendTransaction(ctx, tx)
	if err != nil {
		logger.Printf("SendTransaction(%s, %s) => %v\n", tx.TraceId, tx.Receiver, err)
		d.finishTransaction(tx, TransactionStateFailed, []byte(err.Error()))
		return
	}
	d.finishTransaction(tx, TransactionStateSent, nil)
}

func (d *Dispatcher) finishTransaction(tx *Transaction, state int, result []byte) {
	tx.Settle(state, result, d.clock.Now())
	err := d.store.WriteTransaction(tx)
	if err != nil {
		panic(err)
	}
	d.metrics.ObserveTransaction(tx)
	logger.Verbosef("Dispatcher.finishTransaction(%s, %s) => %s\n", tx.TraceId, tx.Receiver, tx.StateName())
}

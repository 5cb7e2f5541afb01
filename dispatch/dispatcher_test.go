package dispatch_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MixinNetwork/vaultnft/dispatch"
	"github.com/MixinNetwork/vaultnft/store"
	"github.com/stretchr/testify/require"
)

const selfAccount = "nft.near"

type testInvoker struct {
	sent     []string
	receipts []*dispatch.Receipt
	fail     map[string]bool
	errors   map[string]error
	seq      int64
}

func (ti *testInvoker) SendTransaction(ctx context.Context, tx *dispatch.Transaction) error {
	if err := ti.errors[tx.Receiver]; err != nil {
		return err
	}
	ti.sent = append(ti.sent, tx.TraceId)
	status := dispatch.ReceiptStatusSuccess
	if ti.fail[tx.Receiver] {
		status = dispatch.ReceiptStatusFailure
	}
	ti.seq++
	ti.receipts = append(ti.receipts, &dispatch.Receipt{
		TraceId:   tx.TraceId,
		Status:    status,
		Result:    `"ok"`,
		UpdatedAt: time.Unix(1700000000, ti.seq),
	})
	return nil
}

func (ti *testInvoker) ReadReceipts(ctx context.Context, offset time.Time, limit int) ([]*dispatch.Receipt, error) {
	var receipts []*dispatch.Receipt
	for _, r := range ti.receipts {
		if r.UpdatedAt.After(offset) && len(receipts) < limit {
			receipts = append(receipts, r)
		}
	}
	return receipts, nil
}

type testWorker struct {
	store *store.BadgerStore
	clock *dispatch.Clock
	seen  map[string]*dispatch.Transaction
	err   error
}

func (tw *testWorker) ProcessCallback(ctx context.Context, tx, dep *dispatch.Transaction) error {
	tw.seen[tx.TraceId] = dep
	if tw.err != nil {
		return tw.err
	}
	tx.Settle(dispatch.TransactionStateDone, []byte("true"), tw.clock.Now())
	return tw.store.WriteTransaction(tx)
}

type testEnv struct {
	store      *store.BadgerStore
	clock      *dispatch.Clock
	invoker    *testInvoker
	worker     *testWorker
	dispatcher *dispatch.Dispatcher
}

func setupDispatcher(t *testing.T) *testEnv {
	require := require.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	db, err := store.OpenBadger(ctx, "")
	require.Nil(err)
	t.Cleanup(func() { db.Close() })
	clock, err := dispatch.NewClock(db)
	require.Nil(err)
	invoker := &testInvoker{fail: map[string]bool{}, errors: map[string]error{}}
	dispatcher, err := dispatch.NewDispatcher(db, invoker, clock, selfAccount, &dispatch.Configuration{Batch: 10})
	require.Nil(err)
	worker := &testWorker{store: db, clock: clock, seen: map[string]*dispatch.Transaction{}}
	dispatcher.SetWorker(worker)
	return &testEnv{store: db, clock: clock, invoker: invoker, worker: worker, dispatcher: dispatcher}
}

func (env *testEnv) write(t *testing.T, txs ...*dispatch.Transaction) {
	for _, tx := range txs {
		tx.CreatedAt = env.clock.Now()
		tx.UpdatedAt = tx.CreatedAt
		require.Nil(t, tx.Validate())
		require.Nil(t, env.store.WriteTransaction(tx))
	}
}

func (env *testEnv) state(t *testing.T, tx *dispatch.Transaction) int {
	old, err := env.store.ReadTransaction(tx.TraceId)
	require.Nil(t, err)
	return old.State
}

func TestDispatcherChain(t *testing.T) {
	require := require.New(t)
	env := setupDispatcher(t)
	ctx := context.Background()

	vault := dispatch.NewTransaction("call-1", 0, "t1.nft.near").
		CreateAccount().
		DeployContract([]byte("code")).
		Transfer("100").
		FunctionCall("init", []byte("{}"), "0", 20)
	callback := dispatch.NewTransaction("call-1", 1, selfAccount).
		FunctionCall("resolve_create", []byte("{}"), "0", 150).
		After(vault)
	env.write(t, vault, callback)

	require.Equal(1, env.dispatcher.Tick(ctx))
	require.Equal([]string{vault.TraceId}, env.invoker.sent)
	require.Equal(dispatch.TransactionStateSent, env.state(t, vault))
	require.Equal(dispatch.TransactionStateInitial, env.state(t, callback))

	require.Equal(1, env.dispatcher.Tick(ctx))
	require.Equal(dispatch.TransactionStateDone, env.state(t, vault))
	require.Equal(dispatch.TransactionStateDone, env.state(t, callback))
	dep := env.worker.seen[callback.TraceId]
	require.NotNil(dep)
	require.Equal(vault.TraceId, dep.TraceId)
	require.Equal(`"ok"`, string(dep.Result))

	require.Equal(0, env.dispatcher.Tick(ctx))
	require.Len(env.invoker.sent, 1)
}

func TestDispatcherFailedDependency(t *testing.T) {
	require := require.New(t)
	env := setupDispatcher(t)
	ctx := context.Background()
	env.invoker.fail["bad.near"] = true

	first := dispatch.NewTransaction("call-2", 0, "bad.near").Transfer("1")
	second := dispatch.NewTransaction("call-2", 1, "good.near").Transfer("1").After(first)
	callback := dispatch.NewTransaction("call-2", 2, selfAccount).
		FunctionCall("nft_resolve_transfer", []byte("{}"), "0", 5).
		After(first)
	env.write(t, first, second, callback)

	env.dispatcher.Tick(ctx)
	env.dispatcher.Tick(ctx)
	require.Equal(dispatch.TransactionStateFailed, env.state(t, first))
	require.Equal(dispatch.TransactionStateFailed, env.state(t, second))
	require.Equal(dispatch.TransactionStateDone, env.state(t, callback))
	require.Equal([]string{first.TraceId}, env.invoker.sent)
	require.Equal(dispatch.TransactionStateFailed, env.worker.seen[callback.TraceId].State)
}

func TestDispatcherErrors(t *testing.T) {
	require := require.New(t)
	env := setupDispatcher(t)
	ctx := context.Background()
	env.invoker.errors["down.near"] = errors.New("connection refused")
	env.worker.err = errors.New("boom")

	send := dispatch.NewTransaction("call-3", 0, "down.near").Transfer("1")
	callback := dispatch.NewTransaction("call-3", 1, selfAccount).
		FunctionCall("resolve_create", []byte("{}"), "0", 150)
	env.write(t, send, callback)

	require.Equal(2, env.dispatcher.Tick(ctx))
	require.Equal(dispatch.TransactionStateFailed, env.state(t, send))
	require.Equal(dispatch.TransactionStateFailed, env.state(t, callback))
	require.Empty(env.invoker.sent)
	require.Nil(env.worker.seen[callback.TraceId])

	old, err := env.store.ReadTransaction(callback.TraceId)
	require.Nil(err)
	require.Equal("boom", string(old.Result))
	require.Equal(0, env.dispatcher.Tick(ctx))
}

func TestDispatcherRun(t *testing.T) {
	env := setupDispatcher(t)
	tx := dispatch.NewTransaction("call-4", 0, "alice.near").Transfer("5")
	env.write(t, tx)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	env.dispatcher.Run(ctx)
	require.Equal(t, dispatch.TransactionStateDone, env.state(t, tx))
}

func TestClock(t *testing.T) {
	require := require.New(t)
	env := setupDispatcher(t)

	a := env.clock.Now()
	b := env.clock.Now()
	require.True(b.After(a))

	clock, err := dispatch.NewClock(env.store)
	require.Nil(err)
	require.True(clock.Now().After(b))
}

func TestTransactionValidate(t *testing.T) {
	require := require.New(t)

	tx := dispatch.NewTransaction("call-5", 0, "alice.near")
	require.NotNil(tx.Validate())
	require.Nil(tx.Transfer("10").Validate())
	require.Equal(tx.TraceId, dispatch.NewTransaction("call-5", 0, "bob.near").TraceId)
	require.NotEqual(tx.TraceId, dispatch.NewTransaction("call-5", 1, "alice.near").TraceId)

	require.NotNil(dispatch.NewTransaction("call-5", 1, "alice.near").Transfer("-1").Validate())
	require.NotNil(dispatch.NewTransaction("call-5", 1, "alice.near").Transfer("1.5").Validate())
	require.NotNil(dispatch.NewTransaction("call-5", 1, "alice.near").DeployContract(nil).Validate())
	require.NotNil(dispatch.NewTransaction("call-5", 1, "alice.near").FunctionCall("", nil, "0", 1).Validate())

	call := dispatch.NewTransaction("call-5", 2, "alice.near").
		Transfer("1").
		FunctionCall("withdraw", []byte(`{"a":1}`), "1", 100)
	require.Equal("withdraw", call.Method())
	require.Equal(`{"a":1}`, string(call.Args()))
	require.Equal(uint64(100), call.Gas())
	require.Equal("initial", call.StateName())
}

func TestDispatcherReceiptBeforeSentWrite(t *testing.T) {
	require := require.New(t)
	env := setupDispatcher(t)
	ctx := context.Background()

	vault := dispatch.NewTransaction("call-6", 0, "t1.nft.near").Transfer("100")
	callback := dispatch.NewTransaction("call-6", 1, selfAccount).
		FunctionCall("resolve_create", []byte("{}"), "0", 150).
		After(vault)
	env.write(t, vault, callback)

	// the transaction reached the platform but its sent state was never written
	require.Nil(env.invoker.SendTransaction(ctx, vault))
	require.Equal(dispatch.TransactionStateInitial, env.state(t, vault))

	require.Equal(1, env.dispatcher.Tick(ctx))
	require.Equal(dispatch.TransactionStateDone, env.state(t, vault))
	require.Equal(dispatch.TransactionStateDone, env.state(t, callback))
	require.Equal(vault.TraceId, env.worker.seen[callback.TraceId].TraceId)
	require.Equal([]string{vault.TraceId}, env.invoker.sent)

	require.Equal(0, env.dispatcher.Tick(ctx))
	require.Len(env.invoker.sent, 1)
}

func TestDispatcherBatch(t *testing.T) {
	require := require.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := store.OpenBadger(ctx, "")
	require.Nil(err)
	defer db.Close()
	clock, err := dispatch.NewClock(db)
	require.Nil(err)
	invoker := &testInvoker{fail: map[string]bool{}, errors: map[string]error{}}
	dispatcher, err := dispatch.NewDispatcher(db, invoker, clock, selfAccount, &dispatch.Configuration{Batch: 2})
	require.Nil(err)
	env := &testEnv{store: db, clock: clock, invoker: invoker}

	var txs []*dispatch.Transaction
	for i := 0; i < 3; i++ {
		txs = append(txs, dispatch.NewTransaction("call-7", i, "alice.near").Transfer("1"))
	}
	env.write(t, txs...)

	require.Equal(2, dispatcher.Tick(ctx))
	require.Equal([]string{txs[0].TraceId, txs[1].TraceId}, invoker.sent)
	require.Equal(dispatch.TransactionStateInitial, env.state(t, txs[2]))
	require.Equal(1, dispatcher.Tick(ctx))
	require.Equal(dispatch.TransactionStateSent, env.state(t, txs[2]))
}

package dispatch

import (
	"fmt"
	"time"

	"github.com/fox-one/mixin-sdk-go"
	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

const (
	TransactionStateInitial = 10
	TransactionStateSent    = 11
	TransactionStateDone    = 12
	TransactionStateFailed  = 13
)

// Transaction is an asynchronous remote invocation. It is written to the
// outbox by the call that schedules it and walked through its states by the
// dispatcher. A transaction with DependsOn waits until that transaction is
// settled.
type Transaction struct {
	TraceId   string    `json:"trace_id"`
	CallId    string    `json:"call_id"`
	Receiver  string    `json:"receiver_id"`
	Actions   []*Action `json:"actions"`
	DependsOn string    `json:"depends_on,omitempty"`
	State     int       `json:"-" msgpack:"state"`
	Result    []byte    `json:"-" msgpack:"result"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-" msgpack:"updated_at"`
}

// the trace id is derived from the call id and the position of the
// transaction in that call, so replaying a call never yields new ids
func NewTransaction(callId string, seq int, receiver string) *Transaction {
	return &Transaction{
		TraceId:  mixin.UniqueConversationID(callId, fmt.Sprintf("TRANSACTION:%d", seq)),
		CallId:   callId,
		Receiver: receiver,
		State:    TransactionStateInitial,
	}
}

func (tx *Transaction) After(dep *Transaction) *Transaction {
	tx.DependsOn = dep.TraceId
	return tx
}

func (tx *Transaction) Gas() uint64 {
	var gas uint64
	for _, a := range tx.Actions {
		gas += a.Gas
	}
	return gas
}

// Method returns the first function call of the transaction, which is the
// entry point a callback addressed to the contract itself is routed by.
func (tx *Transaction) Method() string {
	for _, a := range tx.Actions {
		if a.Kind == ActionFunctionCall {
			return a.Method
		}
	}
	return ""
}

func (tx *Transaction) Args() []byte {
	for _, a := range tx.Actions {
		if a.Kind == ActionFunctionCall {
			return a.Args
		}
	}
	return nil
}

func (tx *Transaction) Settled() bool {
	return tx.State == TransactionStateDone || tx.State == TransactionStateFailed
}

func (tx *Transaction) Settle(state int, result []byte, now time.Time) {
	tx.State = state
	tx.Result = result
	tx.UpdatedAt = now
}

func (tx *Transaction) StateName() string {
	switch tx.State {
	case TransactionStateInitial:
		return "initial"
	case TransactionStateSent:
		return "sent"
	case TransactionStateDone:
		return "done"
	case TransactionStateFailed:
		return "failed"
	}
	panic(tx.State)
}

func (tx *Transaction) Validate() error {
	id, _ := uuid.FromString(tx.TraceId)
	if id.String() == uuid.Nil.String() {
		return fmt.Errorf("invalid trace id %s", tx.TraceId)
	}
	if tx.Receiver == "" {
		return fmt.Errorf("invalid receiver %s", tx.TraceId)
	}
	if len(tx.Actions) == 0 {
		return fmt.Errorf("empty actions %s", tx.TraceId)
	}
	for _, a := range tx.Actions {
		switch a.Kind {
		case ActionCreateAccount:
		case ActionDeployContract:
			if len(a.Code) == 0 {
				return fmt.Errorf("empty code %s", tx.TraceId)
			}
		case ActionTransfer, ActionFunctionCall:
			if a.Kind == ActionFunctionCall && a.Method == "" {
				return fmt.Errorf("empty method %s", tx.TraceId)
			}
			if a.Deposit == "" {
				continue
			}
			amt, err := decimal.NewFromString(a.Deposit)
			if err != nil || amt.Sign() < 0 || !amt.Equal(amt.Truncate(0)) {
				return fmt.Errorf("invalid deposit %s", a.Deposit)
			}
		default:
			return fmt.Errorf("invalid action %s", a.Kind)
		}
	}
	return nil
}

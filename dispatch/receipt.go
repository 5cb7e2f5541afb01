package dispatch

import "time"

const (
	ReceiptStatusSuccess = "SUCCESS"
	ReceiptStatusFailure = "FAILURE"
)

// Receipt reports the outcome of a sent transaction. Result holds the raw
// return value of the last function call, usually JSON.
type Receipt struct {
	TraceId   string    `json:"trace_id"`
	Status    string    `json:"status"`
	Result    string    `json:"result"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Receipt) TransactionState() int {
	if r.Status == ReceiptStatusSuccess {
		return TransactionStateDone
	}
	return TransactionStateFailed
}

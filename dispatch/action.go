package dispatch

const (
	ActionCreateAccount  = "CreateAccount"
	ActionDeployContract = "DeployContract"
	ActionTransfer       = "Transfer"
	ActionFunctionCall   = "FunctionCall"
)

// Action is one step of a transaction. All actions of a transaction are
// applied to the receiver in order, and the transaction fails as a whole if
// any of them fails.
type Action struct {
	Kind    string `json:"kind"`
	Method  string `json:"method,omitempty"`
	Args    []byte `json:"args,omitempty"`
	Code    []byte `json:"code,omitempty"`
	Deposit string `json:"deposit,omitempty"`
	Gas     uint64 `json:"gas,omitempty"`
}

func (tx *Transaction) CreateAccount() *Transaction {
	tx.Actions = append(tx.Actions, &Action{Kind: ActionCreateAccount})
	return tx
}

func (tx *Transaction) DeployContract(code []byte) *Transaction {
	tx.Actions = append(tx.Actions, &Action{Kind: ActionDeployContract, Code: code})
	return tx
}

func (tx *Transaction) Transfer(amount string) *Transaction {
	tx.Actions = append(tx.Actions, &Action{Kind: ActionTransfer, Deposit: amount})
	return tx
}

func (tx *Transaction) FunctionCall(method string, args []byte, deposit string, gas uint64) *Transaction {
	tx.Actions = append(tx.Actions, &Action{
		Kind:    ActionFunctionCall,
		Method:  method,
		Args:    args,
		Deposit: deposit,
		Gas:     gas,
	})
	return tx
}

package nft

import (
	"errors"
	"fmt"
	"sync"

	"github.com/MixinNetwork/vaultnft/dispatch"
	"github.com/holiman/uint256"
)

var (
	ErrNotInitialized     = errors.New("nft: contract is not initialized")
	ErrAlreadyInitialized = errors.New("nft: already initialized")
	ErrConfigMismatch     = errors.New("nft: configuration differs from the initialized one")
	ErrArithmetic         = errors.New("nft: arithmetic overflow")
	ErrInvalidAccountId   = errors.New("nft: invalid account id")
	ErrInsufficientPrice  = errors.New("nft: insufficient price to mint")
	ErrExceededSupply     = errors.New("nft: exceeded total supply")
	ErrTokenExists        = errors.New("nft: token id must be unique")
	ErrTokenNotFound      = errors.New("nft: token not found")
	ErrNotOwner           = errors.New("nft: you don't own this NFT")
	ErrMinimumDeposit     = errors.New("nft: deposit below minimum")
	ErrOneYocto           = errors.New("nft: requires attached deposit of exactly 1 yoctoNEAR")
	ErrAtLeastOneYocto    = errors.New("nft: requires attached deposit of at least 1 yoctoNEAR")
	ErrUnauthorized       = errors.New("nft: sender not approved")
	ErrApprovalMismatch   = errors.New("nft: approval id does not match")
	ErrSelfTransfer       = errors.New("nft: current and next owner must differ")
	ErrPrivateMethod      = errors.New("nft: method is private")
	ErrCurrencyNotAllowed = errors.New("nft: currency not accepted for deposits")
	ErrGasExceeded        = errors.New("nft: scheduled gas exceeds the call budget")
	ErrOutOfBounds        = errors.New("nft: out of bounds, please use a smaller from_index")
	ErrZeroLimit          = errors.New("nft: cannot provide limit of 0")
	ErrUnknownCallback    = errors.New("nft: unknown callback")
	ErrDuplicateCall      = errors.New("nft: call id already used")
)

const (
	propertyConfig = "CONTRACT:CONFIG"
	propertyIndex  = "CONTRACT:INDEX"
)

// Contract owns the ledgers, the holder registry and the mint counter. Calls
// run one at a time and each runs inside a single store transaction.
type Contract struct {
	sync.Mutex
	store   Store
	clock   *dispatch.Clock
	conf    *Config
	minimum *uint256.Int
}

func NewContract(store Store, clock *dispatch.Clock, conf *Config) (*Contract, error) {
	if conf.MaxGas == 0 {
		conf.MaxGas = DefaultMaxGas
	}
	err := conf.Validate()
	if err != nil {
		return nil, err
	}
	minimum, err := conf.MinimumNeeded()
	if err != nil {
		return nil, err
	}
	return &Contract{
		store:   store,
		clock:   clock,
		conf:    conf,
		minimum: minimum,
	}, nil
}

func (c *Contract) Config() *Config {
	return c.conf
}

func (c *Contract) MinimumNeeded() *uint256.Int {
	return c.minimum.Clone()
}

func (c *Contract) Init() error {
	c.Lock()
	defer c.Unlock()

	return c.store.Update(func(st State) error {
		old, err := st.ReadProperty(propertyConfig)
		if err != nil {
			return err
		}
		if old != nil {
			return ErrAlreadyInitialized
		}
		return st.WriteProperty(propertyConfig, c.conf.marshal())
	})
}

// CheckConfig verifies the configuration this process was started with is
// the one the contract was initialized with.
func (c *Contract) CheckConfig() error {
	return c.store.View(func(st State) error {
		old, err := st.ReadProperty(propertyConfig)
		if err != nil {
			return err
		}
		if old == nil {
			return ErrNotInitialized
		}
		if !c.conf.matches(old) {
			return ErrConfigMismatch
		}
		return nil
	})
}

// Call describes one externally triggered invocation: who calls, what is
// attached and how much gas its scheduled transactions may use.
type Call struct {
	Id          string
	Predecessor string
	Deposit     *uint256.Int
	Gas         uint64

	logs     []string
	pending  []*dispatch.Transaction
	callback *dispatch.Transaction
	result   []byte
}

func (call *Call) Logs() []string {
	return call.logs
}

func (call *Call) Transactions() []*dispatch.Transaction {
	return call.pending
}

func (call *Call) log(format string, args ...interface{}) {
	call.logs = append(call.logs, fmt.Sprintf(format, args...))
}

func (call *Call) promise(receiver string) *dispatch.Transaction {
	tx := dispatch.NewTransaction(call.Id, len(call.pending), receiver)
	call.pending = append(call.pending, tx)
	return tx
}

func (call *Call) assertOneYocto() error {
	if !call.Deposit.Eq(uint256.NewInt(1)) {
		return ErrOneYocto
	}
	return nil
}

func (call *Call) assertAtLeastOneYocto() error {
	if call.Deposit.IsZero() {
		return ErrAtLeastOneYocto
	}
	return nil
}

func (c *Contract) execute(call *Call, fn func(st State) error) error {
	c.Lock()
	defer c.Unlock()

	if call.Deposit == nil {
		call.Deposit = new(uint256.Int)
	}
	if call.Gas == 0 || call.Gas > c.conf.MaxGas {
		call.Gas = c.conf.MaxGas
	}
	call.logs, call.pending, call.result = nil, nil, nil

	err := c.store.Update(func(st State) error {
		old, err := st.ReadProperty(propertyConfig)
		if err != nil {
			return err
		}
		if old == nil {
			return ErrNotInitialized
		}
		err = fn(st)
		if err != nil {
			return err
		}
		return c.commit(st, call)
	})
	if err != nil {
		call.logs, call.pending, call.result = nil, nil, nil
	}
	return err
}

func (c *Contract) commit(st State, call *Call) error {
	var gas uint64
	for _, tx := range call.pending {
		gas += tx.Gas()
	}
	if gas > call.Gas {
		return fmt.Errorf("%w: %d > %d", ErrGasExceeded, gas, call.Gas)
	}
	for _, tx := range call.pending {
		old, err := st.ReadTransaction(tx.TraceId)
		if err != nil {
			return err
		}
		if old != nil {
			return fmt.Errorf("%w: %s", ErrDuplicateCall, call.Id)
		}
		tx.CreatedAt = c.clock.Now()
		tx.UpdatedAt = tx.CreatedAt
		err = tx.Validate()
		if err != nil {
			return err
		}
		err = st.WriteTransaction(tx)
		if err != nil {
			return err
		}
	}
	if cb := call.callback; cb != nil {
		cb.Settle(dispatch.TransactionStateDone, call.result, c.clock.Now())
		return st.WriteTransaction(cb)
	}
	return nil
}

func (c *Contract) view(fn func(st State) error) error {
	return c.store.View(fn)
}

func (c *Contract) readAmountProperty(st State, key string) (*uint256.Int, error) {
	val, err := st.ReadProperty(key)
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).SetBytes(val), nil
}

func (c *Contract) writeAmountProperty(st State, key string, v *uint256.Int) error {
	b := v.Bytes32()
	return st.WriteProperty(key, b[16:])
}

func (c *Contract) addBalance(st State, book Book, account string, amount *uint256.Int) (*uint256.Int, error) {
	balance, err := st.ReadBalance(book, account)
	if err != nil {
		return nil, err
	}
	balance, err = checkedAdd(balance, amount)
	if err != nil {
		return nil, err
	}
	return balance, st.WriteBalance(book, account, balance)
}

package nft

import (
	"github.com/MixinNetwork/vaultnft/dispatch"
	"github.com/holiman/uint256"
)

// Book names one of the account ledgers kept by the contract.
type Book string

const (
	BookStorage  Book = "STORAGE"
	BookDeposits Book = "DEPOSITS"
	BookPayouts  Book = "PAYOUTS"
)

// Store runs fn inside one transaction. Update commits only when fn returns
// nil, so a failed call leaves no trace in any ledger or in the outbox.
type Store interface {
	Update(fn func(State) error) error
	View(fn func(State) error) error
}

type State interface {
	ReadProperty(key string) ([]byte, error)
	WriteProperty(key string, val []byte) error

	ReadBalance(book Book, account string) (*uint256.Int, error)
	WriteBalance(book Book, account string, amount *uint256.Int) error

	AddHolder(account string) error
	RemoveHolder(account string) error
	IsHolder(account string) (bool, error)
	ListHolders() ([]string, error)
	CountHolders() (int, error)

	ReadToken(id string) (*Token, error)
	WriteToken(token *Token) error
	DeleteToken(id string) error
	ListTokens(from, limit int) ([]*Token, error)
	CountTokens() (int, error)
	ListTokensForOwner(owner string, from, limit int) ([]*Token, error)
	CountTokensForOwner(owner string) (int, error)

	ReadTransaction(traceId string) (*dispatch.Transaction, error)
	WriteTransaction(tx *dispatch.Transaction) error
}

type Token struct {
	TokenId            string            `json:"token_id"`
	OwnerId            string            `json:"owner_id"`
	Metadata           *TokenMetadata    `json:"metadata,omitempty"`
	ApprovedAccountIds map[string]uint64 `json:"approved_account_ids"`
	NextApprovalId     uint64            `json:"-" msgpack:"next_approval_id"`
}

package nft

import (
	"github.com/holiman/uint256"
)

func (c *Contract) StorageBalanceOf(accountId string) (*uint256.Int, error) {
	return c.readBalance(BookStorage, accountId)
}

func (c *Contract) FtDepositsOf(accountId string) (*uint256.Int, error) {
	return c.readBalance(BookDeposits, accountId)
}

// BalanceOf is the dividend balance accountId can withdraw.
func (c *Contract) BalanceOf(accountId string) (*uint256.Int, error) {
	return c.readBalance(BookPayouts, accountId)
}

func (c *Contract) Index() (*uint256.Int, error) {
	var index *uint256.Int
	err := c.view(func(st State) (err error) {
		index, err = c.readAmountProperty(st, propertyIndex)
		return err
	})
	return index, err
}

// TotalSupply is the configured cap; zero means unlimited.
func (c *Contract) TotalSupply() *uint256.Int {
	return c.conf.TotalSupply.Clone()
}

func (c *Contract) TotalHolders() (uint64, error) {
	var count int
	err := c.view(func(st State) (err error) {
		count, err = st.CountHolders()
		return err
	})
	return uint64(count), err
}

func (c *Contract) Holders() ([]string, error) {
	var holders []string
	err := c.view(func(st State) (err error) {
		holders, err = st.ListHolders()
		return err
	})
	return holders, err
}

func (c *Contract) NftMetadata() *NFTContractMetadata {
	return c.conf.Metadata
}

func (c *Contract) NftToken(tokenId string) (*Token, error) {
	var token *Token
	err := c.view(func(st State) (err error) {
		token, err = st.ReadToken(tokenId)
		return err
	})
	return token, err
}

func (c *Contract) NftTotalSupply() (uint64, error) {
	var count int
	err := c.view(func(st State) (err error) {
		count, err = st.CountTokens()
		return err
	})
	return uint64(count), err
}

// NftTokens pages through all tokens in token id order. A nil limit lists
// everything from fromIndex on.
func (c *Contract) NftTokens(fromIndex uint64, limit *uint64) ([]*Token, error) {
	var tokens []*Token
	err := c.view(func(st State) error {
		count, err := st.CountTokens()
		if err != nil {
			return err
		}
		if uint64(count) < fromIndex {
			return ErrOutOfBounds
		}
		n, err := pageLimit(limit)
		if err != nil {
			return err
		}
		tokens, err = st.ListTokens(int(fromIndex), n)
		return err
	})
	return tokens, err
}

func (c *Contract) NftSupplyForOwner(accountId string) (uint64, error) {
	var count int
	err := c.view(func(st State) (err error) {
		count, err = st.CountTokensForOwner(accountId)
		return err
	})
	return uint64(count), err
}

func (c *Contract) NftTokensForOwner(accountId string, fromIndex uint64, limit *uint64) ([]*Token, error) {
	var tokens []*Token
	err := c.view(func(st State) error {
		count, err := st.CountTokensForOwner(accountId)
		if err != nil || count == 0 {
			return err
		}
		if uint64(count) <= fromIndex {
			return ErrOutOfBounds
		}
		n, err := pageLimit(limit)
		if err != nil {
			return err
		}
		tokens, err = st.ListTokensForOwner(accountId, int(fromIndex), n)
		return err
	})
	return tokens, err
}

func (c *Contract) readBalance(book Book, accountId string) (*uint256.Int, error) {
	var balance *uint256.Int
	err := c.view(func(st State) (err error) {
		balance, err = st.ReadBalance(book, accountId)
		return err
	})
	return balance, err
}

func pageLimit(limit *uint64) (int, error) {
	if limit == nil {
		return 0, nil
	}
	if *limit == 0 {
		return 0, ErrZeroLimit
	}
	return int(*limit), nil
}

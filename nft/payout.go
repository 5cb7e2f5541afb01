package nft

import (
	"github.com/holiman/uint256"
)

type MintSplit struct {
	VaultAmount *uint256.Int
	OwnerAmount *uint256.Int
}

// ComputeMintSplit escrows percent of the price to the vault and pays the
// remainder to the collection owner. The vault share truncates.
func ComputeMintSplit(price, percent *uint256.Int) (*MintSplit, error) {
	vault, err := checkedMul(price, percent)
	if err != nil {
		return nil, err
	}
	vault, err = checkedDiv(vault, hundred)
	if err != nil {
		return nil, err
	}
	owner, err := checkedSub(price, vault)
	if err != nil {
		return nil, err
	}
	return &MintSplit{VaultAmount: vault, OwnerAmount: owner}, nil
}

// BurnDividend is the amount credited to each remaining holder when a token
// is burned. The two truncating divisions are applied in sequence, first by
// 20000 and then by the holder count, and must not be merged: merging them
// changes the result.
func BurnDividend(price, percent, fee *uint256.Int, holders uint64) (*uint256.Int, error) {
	if holders == 0 {
		return new(uint256.Int), nil
	}
	amount, err := checkedMul(price, percent)
	if err != nil {
		return nil, err
	}
	amount, err = checkedMul(amount, fee)
	if err != nil {
		return nil, err
	}
	amount, err = checkedDiv(amount, dividendDivisor)
	if err != nil {
		return nil, err
	}
	return checkedDiv(amount, uint256.NewInt(holders))
}

func RoyaltyToPayout(bp, amount *uint256.Int) (*uint256.Int, error) {
	z, err := checkedMul(bp, amount)
	if err != nil {
		return nil, err
	}
	return checkedDiv(z, basisPoints)
}

// Payout reports how a sale balance is split. Nothing is moved by the
// contract; the marketplace that asked for the payout moves the funds.
type Payout struct {
	Payout map[string]string `json:"payout"`
}

func ComputeSalePayout(collectionOwner, seller string, royalty, balance *uint256.Int) (*Payout, error) {
	sellerBp, err := checkedSub(basisPoints, royalty)
	if err != nil {
		return nil, err
	}
	sellerCut, err := RoyaltyToPayout(sellerBp, balance)
	if err != nil {
		return nil, err
	}
	collectionCut, err := RoyaltyToPayout(royalty, balance)
	if err != nil {
		return nil, err
	}
	if collectionOwner == seller {
		total, err := checkedAdd(sellerCut, collectionCut)
		if err != nil {
			return nil, err
		}
		return &Payout{Payout: map[string]string{seller: total.Dec()}}, nil
	}
	return &Payout{Payout: map[string]string{
		collectionOwner: collectionCut.Dec(),
		seller:          sellerCut.Dec(),
	}}, nil
}

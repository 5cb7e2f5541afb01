package nft

import (
	"fmt"

	"github.com/holiman/uint256"
)

// All amounts are unsigned 128 bit quantities carried in uint256 values. Any
// result that leaves that range aborts the call.

var (
	hundred         = uint256.NewInt(100)
	basisPoints     = uint256.NewInt(10_000)
	dividendDivisor = uint256.NewInt(20_000)
)

func fitsU128(x *uint256.Int) bool {
	return x.BitLen() <= 128
}

func checkedAdd(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(x, y)
	if overflow || !fitsU128(z) {
		return nil, fmt.Errorf("%w: %s + %s", ErrArithmetic, x.Dec(), y.Dec())
	}
	return z, nil
}

func checkedSub(x, y *uint256.Int) (*uint256.Int, error) {
	if x.Lt(y) {
		return nil, fmt.Errorf("%w: %s - %s", ErrArithmetic, x.Dec(), y.Dec())
	}
	return new(uint256.Int).Sub(x, y), nil
}

func checkedMul(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow || !fitsU128(z) {
		return nil, fmt.Errorf("%w: %s * %s", ErrArithmetic, x.Dec(), y.Dec())
	}
	return z, nil
}

func checkedDiv(x, y *uint256.Int) (*uint256.Int, error) {
	if y.IsZero() {
		return nil, fmt.Errorf("%w: %s / 0", ErrArithmetic, x.Dec())
	}
	return new(uint256.Int).Div(x, y), nil
}

// ParseAmount parses a base-10 string into a 128 bit amount.
func ParseAmount(s string) (*uint256.Int, error) {
	z, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if !fitsU128(z) {
		return nil, fmt.Errorf("%w: amount %s exceeds 128 bits", ErrArithmetic, s)
	}
	return z, nil
}

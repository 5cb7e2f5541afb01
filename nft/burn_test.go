package nft_test

import (
	"testing"

	"github.com/MixinNetwork/vaultnft/nft"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestBurnSoleHolder(t *testing.T) {
	require := require.New(t)
	env := setupContract(t, nil)
	env.mint(t, "alice.near", "t1")

	call := newCall("alice.near", nil)
	require.Nil(env.contract.Burn(call, "t1"))
	require.Equal("Total holders count: 0", call.Logs()[0])
	require.Equal("Amount to each holder: 0", call.Logs()[1])
	require.Contains(call.Logs()[2], `"event":"nft_burn"`)

	txs := call.Transactions()
	require.Len(txs, 1)
	require.Equal("t1.nft.near", txs[0].Receiver)
	require.Equal(nft.VaultMethodWithdraw, txs[0].Method())
	require.JSONEq(`{"owner":"alice.near","burn_fee":"100"}`, string(txs[0].Args()))
	require.Equal("1", txs[0].Actions[0].Deposit)

	count, err := env.contract.TotalHolders()
	require.Nil(err)
	require.Equal(uint64(0), count)
	balance, err := env.contract.BalanceOf("alice.near")
	require.Nil(err)
	require.True(balance.IsZero())
	token, err := env.contract.NftToken("t1")
	require.Nil(err)
	require.Nil(token)
}

func TestBurnDividendCredits(t *testing.T) {
	require := require.New(t)
	env := setupContract(t, nil)
	env.mint(t, "alice.near", "t1")
	env.mint(t, "alice.near", "t2")
	env.mint(t, "bob.near", "t3")
	env.mint(t, "carol.near", "t4")

	call := newCall("alice.near", nil)
	require.Nil(env.contract.Burn(call, "t1"))
	// alice keeps t2 and is excluded from her own dividend
	require.Equal("Total holders count: 2", call.Logs()[0])
	require.Equal("Amount to each holder: 20", call.Logs()[1])
	env.assertHoldersMatchOwners(t, "alice.near", "bob.near", "carol.near")

	for _, h := range []string{"bob.near", "carol.near"} {
		balance, err := env.contract.BalanceOf(h)
		require.Nil(err)
		require.Equal("20", balance.Dec())
	}
	balance, err := env.contract.BalanceOf("alice.near")
	require.Nil(err)
	require.True(balance.IsZero())

	call = newCall("alice.near", nil)
	require.Nil(env.contract.Burn(call, "t2"))
	require.Equal("Total holders count: 2", call.Logs()[0])
	env.assertHoldersMatchOwners(t, "alice.near", "bob.near", "carol.near")
	balance, err = env.contract.BalanceOf("bob.near")
	require.Nil(err)
	require.Equal("40", balance.Dec())
}

func TestBurnRejects(t *testing.T) {
	require := require.New(t)
	env := setupContract(t, nil)
	env.mint(t, "alice.near", "t1")

	require.ErrorIs(env.contract.Burn(newCall("bob.near", nil), "t1"), nft.ErrNotOwner)
	require.ErrorIs(env.contract.Burn(newCall("bob.near", nil), "t9"), nft.ErrTokenNotFound)
	env.assertHoldersMatchOwners(t, "alice.near", "bob.near")
}

func TestWithdraw(t *testing.T) {
	require := require.New(t)
	env := setupContract(t, nil)
	env.mint(t, "alice.near", "t1")
	env.mint(t, "bob.near", "t2")
	require.Nil(env.contract.Burn(newCall("alice.near", nil), "t1"))

	call := newCall("bob.near", nil)
	require.Nil(env.contract.Withdraw(call))
	txs := call.Transactions()
	require.Len(txs, 1)
	require.Equal("bob.near", txs[0].Receiver)
	require.Equal("40", txs[0].Actions[0].Deposit)

	call = newCall("bob.near", nil)
	require.Nil(env.contract.Withdraw(call))
	require.Empty(call.Transactions())
	balance, err := env.contract.BalanceOf("bob.near")
	require.Nil(err)
	require.True(balance.IsZero())
}

func TestWithdrawAlternateCurrency(t *testing.T) {
	require := require.New(t)
	env := setupContract(t, func(conf *nft.Config) {
		conf.MintCurrency = "usdc.near"
	})
	for _, a := range []string{"alice.near", "bob.near"} {
		_, err := env.contract.FtOnTransfer(newCall("usdc.near", nil), a, yocto(100), "")
		require.Nil(err)
		call := newCall(a, env.contract.MinimumNeeded())
		_, err = env.contract.Mint(call, a[:len(a)-5], a, &nft.TokenMetadata{})
		require.Nil(err)
	}
	require.Nil(env.contract.Burn(newCall("alice.near", nil), "alice"))

	call := newCall("bob.near", nil)
	require.Nil(env.contract.Withdraw(call))
	txs := call.Transactions()
	require.Len(txs, 1)
	require.Equal("usdc.near", txs[0].Receiver)
	require.Equal("ft_transfer", txs[0].Method())
	require.JSONEq(`{"receiver_id":"bob.near","amount":"40"}`, string(txs[0].Args()))
}

func TestStorageDeposit(t *testing.T) {
	require := require.New(t)
	env := setupContract(t, nil)

	short := new(uint256.Int).Sub(nft.StoragePerSale, yocto(1))
	err := env.contract.StorageDeposit(newCall("alice.near", short), "")
	require.ErrorIs(err, nft.ErrMinimumDeposit)
	require.Contains(err.Error(), "requires minimum deposit of 10000000000000000000000")
	balance, err := env.contract.StorageBalanceOf("alice.near")
	require.Nil(err)
	require.True(balance.IsZero())

	require.Nil(env.contract.StorageDeposit(newCall("alice.near", nft.StoragePerSale), ""))
	require.Nil(env.contract.StorageDeposit(newCall("alice.near", nft.StoragePerSale), "bob.near"))
	require.Nil(env.contract.StorageDeposit(newCall("bob.near", nft.StoragePerSale), ""))

	balance, err = env.contract.StorageBalanceOf("alice.near")
	require.Nil(err)
	require.Equal(nft.StoragePerSale.Dec(), balance.Dec())
	balance, err = env.contract.StorageBalanceOf("bob.near")
	require.Nil(err)
	require.Equal(new(uint256.Int).Mul(nft.StoragePerSale, yocto(2)).Dec(), balance.Dec())
}

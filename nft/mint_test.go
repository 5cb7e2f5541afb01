package nft_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/MixinNetwork/vaultnft/dispatch"
	"github.com/MixinNetwork/vaultnft/nft"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestMintNativeSplit(t *testing.T) {
	require := require.New(t)
	env := setupContract(t, nil)

	call := env.mint(t, "alice.near", "t1")
	txs := call.Transactions()
	require.Len(txs, 2)

	vault := txs[0]
	require.Equal("t1.nft.near", vault.Receiver)
	require.Len(vault.Actions, 4)
	require.Equal(dispatch.ActionCreateAccount, vault.Actions[0].Kind)
	require.Equal(dispatch.ActionDeployContract, vault.Actions[1].Kind)
	require.Equal([]byte("vault"), vault.Actions[1].Code)
	require.Equal(dispatch.ActionTransfer, vault.Actions[2].Kind)
	require.Equal(env.contract.MinimumNeeded().Dec(), vault.Actions[2].Deposit)
	require.Equal(nft.VaultMethodInit, vault.Method())
	require.JSONEq(`{"treasury":"treasury.near"}`, string(vault.Args()))

	resolve := txs[1]
	require.Equal(contractAccount, resolve.Receiver)
	require.Equal("resolve_create", resolve.Method())
	require.Equal(vault.TraceId, resolve.DependsOn)

	index, err := env.contract.Index()
	require.Nil(err)
	require.Equal("1", index.Dec())
	require.Contains(call.Logs()[0], `"event":"nft_mint"`)

	env.settle(t)

	owner := env.invoker.sentTo("owner.near")
	require.Len(owner, 1)
	require.Equal(dispatch.ActionTransfer, owner[0].Actions[0].Kind)
	require.Equal("20", owner[0].Actions[0].Deposit)

	deposits := env.invoker.sentTo("t1.nft.near")
	require.Len(deposits, 2)
	require.Equal(nft.VaultMethodDepositNative, deposits[1].Method())
	require.Equal("80", deposits[1].Actions[0].Deposit)

	cb, err := env.store.ReadTransaction(resolve.TraceId)
	require.Nil(err)
	require.Equal(dispatch.TransactionStateDone, cb.State)
}

func TestMintCallbackRunsAfterFailedVault(t *testing.T) {
	require := require.New(t)
	env := setupContract(t, nil)
	env.invoker.outcomes["t1.nft.near"] = fakeOutcome{status: dispatch.ReceiptStatusFailure}

	call := env.mint(t, "alice.near", "t1")
	env.settle(t)

	cb, err := env.store.ReadTransaction(call.Transactions()[1].TraceId)
	require.Nil(err)
	require.Equal(dispatch.TransactionStateDone, cb.State)
	require.Len(env.invoker.sentTo("owner.near"), 1)

	token, err := env.contract.NftToken("t1")
	require.Nil(err)
	require.Equal("alice.near", token.OwnerId)
}

func TestMintPayment(t *testing.T) {
	require := require.New(t)
	env := setupContract(t, nil)

	short := new(uint256.Int).Sub(env.mintDeposit(), yocto(1))
	_, err := env.contract.Mint(newCall("alice.near", short), "t1", "alice.near", &nft.TokenMetadata{})
	require.ErrorIs(err, nft.ErrInsufficientPrice)
	token, err := env.contract.NftToken("t1")
	require.Nil(err)
	require.Nil(token)

	extra := new(uint256.Int).Add(env.mintDeposit(), yocto(5))
	call := newCall("alice.near", extra)
	_, err = env.contract.Mint(call, "t1", "bob.near", &nft.TokenMetadata{})
	require.Nil(err)
	txs := call.Transactions()
	require.Len(txs, 3)
	require.Equal("alice.near", txs[2].Receiver)
	require.Equal("5", txs[2].Actions[0].Deposit)

	holders, err := env.contract.Holders()
	require.Nil(err)
	require.Equal([]string{"bob.near"}, holders)
}

func TestMintRejects(t *testing.T) {
	require := require.New(t)
	env := setupContract(t, nil)
	env.mint(t, "alice.near", "t1")

	_, err := env.contract.Mint(newCall("alice.near", env.mintDeposit()), "t1", "alice.near", &nft.TokenMetadata{})
	require.ErrorIs(err, nft.ErrTokenExists)

	_, err = env.contract.Mint(newCall("alice.near", env.mintDeposit()), "Bad Id", "alice.near", &nft.TokenMetadata{})
	require.ErrorIs(err, nft.ErrInvalidAccountId)

	_, err = env.contract.Mint(newCall("alice.near", env.mintDeposit()), "t2", "alice.near", &nft.TokenMetadata{Media: "ipfs://x"})
	require.NotNil(err)

	call := newCall("alice.near", env.mintDeposit())
	call.Gas = 100
	_, err = env.contract.Mint(call, "t2", "alice.near", &nft.TokenMetadata{})
	require.ErrorIs(err, nft.ErrGasExceeded)
	require.Empty(call.Transactions())

	index, err := env.contract.Index()
	require.Nil(err)
	require.Equal("1", index.Dec())
}

func TestMintSupplyCap(t *testing.T) {
	require := require.New(t)
	env := setupContract(t, func(conf *nft.Config) {
		conf.TotalSupply = uint256.NewInt(5)
	})

	for i := 1; i <= 5; i++ {
		env.mint(t, "alice.near", fmt.Sprintf("t%d", i))
	}
	call := newCall("alice.near", env.mintDeposit())
	_, err := env.contract.Mint(call, "t6", "alice.near", &nft.TokenMetadata{})
	require.ErrorIs(err, nft.ErrExceededSupply)
	require.Empty(call.Transactions())

	index, err := env.contract.Index()
	require.Nil(err)
	require.Equal("5", index.Dec())
	total, err := env.contract.NftTotalSupply()
	require.Nil(err)
	require.Equal(uint64(5), total)
	token, err := env.contract.NftToken("t6")
	require.Nil(err)
	require.Nil(token)
}

func TestMintAlternateCurrency(t *testing.T) {
	require := require.New(t)
	env := setupContract(t, func(conf *nft.Config) {
		conf.MintCurrency = "usdc.near"
	})

	_, err := env.contract.FtOnTransfer(newCall("mallory.near", nil), "alice.near", yocto(100), "")
	require.ErrorIs(err, nft.ErrCurrencyNotAllowed)

	_, err = env.contract.Mint(newCall("alice.near", env.contract.MinimumNeeded()), "t1", "alice.near", &nft.TokenMetadata{})
	require.ErrorIs(err, nft.ErrInsufficientPrice)

	ftCall := newCall("usdc.near", nil)
	unused, err := env.contract.FtOnTransfer(ftCall, "alice.near", yocto(100), "")
	require.Nil(err)
	require.True(unused.IsZero())

	call := newCall("alice.near", env.contract.MinimumNeeded())
	_, err = env.contract.Mint(call, "t1", "alice.near", &nft.TokenMetadata{})
	require.Nil(err)
	var args map[string]string
	require.Nil(json.Unmarshal(call.Transactions()[0].Args(), &args))
	require.Equal("usdc.near", args["ft_contract"])

	env.settle(t)
	ft := env.invoker.sentTo("usdc.near")
	require.Len(ft, 3)
	require.Equal("storage_deposit", ft[0].Method())
	require.Equal(nft.VaultCurrencyStorage.Dec(), ft[0].Actions[0].Deposit)
	require.Equal("ft_transfer_call", ft[1].Method())
	require.JSONEq(`{"receiver_id":"t1.nft.near","amount":"80","msg":""}`, string(ft[1].Args()))
	require.Equal("ft_transfer", ft[2].Method())
	require.JSONEq(`{"receiver_id":"owner.near","amount":"20","msg":""}`, string(ft[2].Args()))

	deposits, err := env.contract.FtDepositsOf("alice.near")
	require.Nil(err)
	require.Equal("100", deposits.Dec())
}

func TestResolveCreatePrivate(t *testing.T) {
	require := require.New(t)
	env := setupContract(t, nil)

	err := env.contract.ResolveCreate(newCall("alice.near", nil), "t1.nft.near", "owner.near", yocto(20), yocto(80))
	require.ErrorIs(err, nft.ErrPrivateMethod)
}

func TestMintDuplicateCallId(t *testing.T) {
	require := require.New(t)
	env := setupContract(t, nil)

	first := env.mint(t, "alice.near", "t1")
	again := newCall("alice.near", env.mintDeposit())
	again.Id = first.Id
	_, err := env.contract.Mint(again, "t2", "alice.near", &nft.TokenMetadata{})
	require.ErrorIs(err, nft.ErrDuplicateCall)
	require.Empty(again.Transactions())
	token, err := env.contract.NftToken("t2")
	require.Nil(err)
	require.Nil(token)

	initial, err := env.store.ListTransactions(dispatch.TransactionStateInitial, 0)
	require.Nil(err)
	require.Len(initial, 2)
	require.Equal("t1.nft.near", initial[0].Receiver)
	require.Equal(contractAccount, initial[1].Receiver)

	env.settle(t)
	again = newCall("alice.near", env.mintDeposit())
	again.Id = first.Id
	_, err = env.contract.Mint(again, "t2", "alice.near", &nft.TokenMetadata{})
	require.ErrorIs(err, nft.ErrDuplicateCall)

	index, err := env.contract.Index()
	require.Nil(err)
	require.Equal("1", index.Dec())
	require.Len(env.invoker.sentTo("t1.nft.near"), 2)
	require.Empty(env.invoker.sentTo("t2.nft.near"))
}

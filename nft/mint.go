package nft

import (
	"encoding/json"
	"fmt"

	"github.com/MixinNetwork/mixin/logger"
	"github.com/holiman/uint256"
)

const (
	VaultMethodInit          = "init"
	VaultMethodDepositNative = "deposit_near"
	VaultMethodWithdraw      = "withdraw"

	gasForVaultInit      = 20
	gasForResolveCreate  = 150
	gasForStorageDeposit = 20
	gasForTransferCall   = 50
	gasForTransfer       = 50
	gasForDepositNative  = 20
)

type vaultInitArgs struct {
	FtContract string `json:"ft_contract,omitempty"`
	Treasury   string `json:"treasury"`
}

type resolveCreateArgs struct {
	VaultAccountId  string `json:"vault_account_id"`
	CollectionOwner string `json:"collection_owner"`
	OwnerAmount     string `json:"owner_amount"`
	VaultAmount     string `json:"vault_amount"`
}

// Mint creates token tokenId for tokenOwnerId and starts provisioning its
// vault. The token exists as soon as the call commits; the vault chain and the
// routing of the mint proceeds happen later and may fail silently.
func (c *Contract) Mint(call *Call, tokenId, tokenOwnerId string, metadata *TokenMetadata) (*Token, error) {
	var token *Token
	err := c.execute(call, func(st State) error {
		err := ValidateAccountId(tokenOwnerId)
		if err != nil {
			return err
		}
		err = metadata.Validate()
		if err != nil {
			return err
		}
		vault, err := VaultAccountId(tokenId, c.conf.AccountId)
		if err != nil {
			return err
		}

		refund, err := c.checkMintPayment(st, call)
		if err != nil {
			return err
		}

		index, err := c.readAmountProperty(st, propertyIndex)
		if err != nil {
			return err
		}
		index, err = checkedAdd(index, uint256.NewInt(1))
		if err != nil {
			return err
		}
		if !c.conf.TotalSupply.IsZero() && index.Gt(c.conf.TotalSupply) {
			return ErrExceededSupply
		}

		old, err := st.ReadToken(tokenId)
		if err != nil {
			return err
		}
		if old != nil {
			return ErrTokenExists
		}

		split, err := ComputeMintSplit(c.conf.MintPrice, c.conf.PaymentSplitPercent)
		if err != nil {
			return err
		}

		// the registry tracks owners, so the caller minting for someone else is not added
		err = st.AddHolder(tokenOwnerId)
		if err != nil {
			return err
		}
		c.provisionVault(call, vault, split)

		err = c.writeAmountProperty(st, propertyIndex, index)
		if err != nil {
			return err
		}
		token = &Token{
			TokenId:            tokenId,
			OwnerId:            tokenOwnerId,
			Metadata:           metadata,
			ApprovedAccountIds: map[string]uint64{},
		}
		err = st.WriteToken(token)
		if err != nil {
			return err
		}
		if !refund.IsZero() {
			call.promise(call.Predecessor).Transfer(refund.Dec())
		}
		call.log(mintEvent(tokenOwnerId, tokenId))
		logger.Verbosef("Contract.Mint(%s, %s, %s) => %s vault %s owner %s\n", call.Predecessor, tokenId, tokenOwnerId, index.Dec(), split.VaultAmount.Dec(), split.OwnerAmount.Dec())
		return nil
	})
	return token, err
}

// checkMintPayment validates the attached deposit and returns the excess to
// refund to the caller.
func (c *Contract) checkMintPayment(st State, call *Call) (*uint256.Int, error) {
	if c.conf.MintCurrency != "" {
		amount, err := st.ReadBalance(BookDeposits, call.Predecessor)
		if err != nil {
			return nil, err
		}
		if call.Deposit.Lt(c.minimum) || amount.Lt(c.conf.MintPrice) {
			return nil, ErrInsufficientPrice
		}
		return checkedSub(call.Deposit, c.minimum)
	}
	need, err := checkedAdd(c.conf.MintPrice, c.minimum)
	if err != nil {
		return nil, err
	}
	if call.Deposit.Lt(need) {
		return nil, fmt.Errorf("%w: attached %s, need %s", ErrInsufficientPrice, call.Deposit.Dec(), need.Dec())
	}
	return checkedSub(call.Deposit, need)
}

func (c *Contract) provisionVault(call *Call, vault string, split *MintSplit) {
	args := vaultInitArgs{Treasury: c.conf.Treasury}
	if c.conf.MintCurrency != "" {
		args.FtContract = c.conf.MintCurrency
	}
	deploy := call.promise(vault).
		CreateAccount().
		DeployContract(c.conf.VaultCode).
		Transfer(c.minimum.Dec()).
		FunctionCall(VaultMethodInit, mustMarshal(args), "0", gasForVaultInit)

	call.promise(c.conf.AccountId).
		FunctionCall("resolve_create", mustMarshal(resolveCreateArgs{
			VaultAccountId:  vault,
			CollectionOwner: c.conf.OwnerId,
			OwnerAmount:     split.OwnerAmount.Dec(),
			VaultAmount:     split.VaultAmount.Dec(),
		}), "0", gasForResolveCreate).
		After(deploy)
}

// ResolveCreate routes the mint proceeds once the vault chain has settled.
// Only the contract itself may call it, and none of the transfers it issues
// is awaited.
func (c *Contract) ResolveCreate(call *Call, vault, collectionOwner string, ownerAmount, vaultAmount *uint256.Int) error {
	return c.execute(call, func(st State) error {
		return c.resolveCreate(call, vault, collectionOwner, ownerAmount, vaultAmount)
	})
}

func (c *Contract) resolveCreate(call *Call, vault, collectionOwner string, ownerAmount, vaultAmount *uint256.Int) error {
	if call.Predecessor != c.conf.AccountId {
		return ErrPrivateMethod
	}
	if ft := c.conf.MintCurrency; ft != "" {
		call.promise(ft).FunctionCall("storage_deposit", mustMarshal(map[string]string{
			"account_id": vault,
		}), VaultCurrencyStorage.Dec(), gasForStorageDeposit)
		call.promise(ft).FunctionCall("ft_transfer_call", mustMarshal(map[string]string{
			"receiver_id": vault,
			"amount":      vaultAmount.Dec(),
			"msg":         "",
		}), "1", gasForTransferCall)
		call.promise(ft).FunctionCall("ft_transfer", mustMarshal(map[string]string{
			"receiver_id": collectionOwner,
			"amount":      ownerAmount.Dec(),
			"msg":         "",
		}), "1", gasForTransfer)
	} else {
		call.promise(collectionOwner).Transfer(ownerAmount.Dec())
		call.promise(vault).FunctionCall(VaultMethodDepositNative, []byte("{}"), vaultAmount.Dec(), gasForDepositNative)
	}
	logger.Verbosef("Contract.resolveCreate(%s, %s, %s, %s)\n", vault, collectionOwner, ownerAmount.Dec(), vaultAmount.Dec())
	return nil
}

func mustMarshal(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

package nft

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/MixinNetwork/mixin/common"
	"github.com/MixinNetwork/mixin/crypto"
	"github.com/holiman/uint256"
)

var (
	// storage price per byte
	NearPerStorage = uint256.NewInt(10_000_000_000_000_000_000)
	// the minimum storage to have a sale on the contract
	StoragePerSale = new(uint256.Int).Mul(uint256.NewInt(1000), NearPerStorage)
	// reserve left on every vault account for its own state
	VaultStorage = new(uint256.Int).Mul(uint256.NewInt(19_800), uint256.NewInt(1_000_000_000_000_000_000))
	// attached to the alternate-currency storage registration of a vault
	VaultCurrencyStorage = new(uint256.Int).Mul(uint256.NewInt(100_000), uint256.NewInt(1_000_000_000_000_000_000))
)

const DefaultMaxGas = 300

// Config is fixed when the contract is initialized.
type Config struct {
	AccountId           string
	OwnerId             string
	Metadata            *NFTContractMetadata
	MintPrice           *uint256.Int
	MintCurrency        string
	PaymentSplitPercent *uint256.Int
	TotalSupply         *uint256.Int
	BurnFee             *uint256.Int
	Treasury            string
	Royalty             *uint256.Int
	VaultCode           []byte
	MaxGas              uint64
}

func (conf *Config) Validate() error {
	for _, id := range []string{conf.AccountId, conf.OwnerId, conf.Treasury} {
		if err := ValidateAccountId(id); err != nil {
			return err
		}
	}
	if conf.MintCurrency != "" {
		if err := ValidateAccountId(conf.MintCurrency); err != nil {
			return err
		}
	}
	if err := conf.Metadata.Validate(); err != nil {
		return err
	}
	for _, v := range []*uint256.Int{conf.MintPrice, conf.PaymentSplitPercent, conf.TotalSupply, conf.BurnFee, conf.Royalty} {
		if v == nil || !fitsU128(v) {
			return errors.New("nft: invalid amount in configuration")
		}
	}
	if conf.PaymentSplitPercent.Gt(hundred) {
		return fmt.Errorf("nft: payment split percent %s out of range", conf.PaymentSplitPercent.Dec())
	}
	if conf.Royalty.Gt(basisPoints) {
		return fmt.Errorf("nft: royalty %s out of range", conf.Royalty.Dec())
	}
	if len(conf.VaultCode) == 0 {
		return errors.New("nft: empty vault code")
	}
	return nil
}

// MinimumNeeded is the deposit that pays for deploying and holding a vault.
func (conf *Config) MinimumNeeded() (*uint256.Int, error) {
	cost, err := checkedMul(NearPerStorage, uint256.NewInt(uint64(len(conf.VaultCode))))
	if err != nil {
		return nil, err
	}
	return checkedAdd(cost, VaultStorage)
}

type configRecord struct {
	AccountId           string
	OwnerId             string
	Metadata            *NFTContractMetadata
	MintPrice           string
	MintCurrency        string
	PaymentSplitPercent string
	TotalSupply         string
	BurnFee             string
	Treasury            string
	Royalty             string
	VaultCode           crypto.Hash
}

func (conf *Config) record() *configRecord {
	return &configRecord{
		AccountId:           conf.AccountId,
		OwnerId:             conf.OwnerId,
		Metadata:            conf.Metadata,
		MintPrice:           conf.MintPrice.Dec(),
		MintCurrency:        conf.MintCurrency,
		PaymentSplitPercent: conf.PaymentSplitPercent.Dec(),
		TotalSupply:         conf.TotalSupply.Dec(),
		BurnFee:             conf.BurnFee.Dec(),
		Treasury:            conf.Treasury,
		Royalty:             conf.Royalty.Dec(),
		VaultCode:           crypto.NewHash(conf.VaultCode),
	}
}

func (conf *Config) marshal() []byte {
	return common.MsgpackMarshalPanic(conf.record())
}

func (conf *Config) matches(val []byte) bool {
	return bytes.Equal(conf.marshal(), val)
}

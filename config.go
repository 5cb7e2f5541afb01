package main

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/MixinNetwork/vaultnft/dispatch"
	"github.com/MixinNetwork/vaultnft/nft"
	"github.com/holiman/uint256"
	"github.com/pelletier/go-toml"
	"github.com/shopspring/decimal"
)

type ContractConfiguration struct {
	AccountId           string                   `toml:"account-id"`
	OwnerId             string                   `toml:"owner-id"`
	Treasury            string                   `toml:"treasury"`
	MintPrice           string                   `toml:"mint-price"`
	MintCurrency        string                   `toml:"mint-currency"`
	CurrencyDecimals    int32                    `toml:"currency-decimals"`
	PaymentSplitPercent uint64                   `toml:"payment-split-percent"`
	TotalSupply         uint64                   `toml:"total-supply"`
	BurnFee             uint64                   `toml:"burn-fee"`
	Royalty             uint64                   `toml:"royalty"`
	VaultCode           string                   `toml:"vault-code"`
	MaxGas              uint64                   `toml:"max-gas"`
	Metadata            *nft.NFTContractMetadata `toml:"metadata"`
}

type Configuration struct {
	Contract *ContractConfiguration  `toml:"contract"`
	Dispatch *dispatch.Configuration `toml:"dispatch"`
}

func Setup(path string) (*Configuration, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var conf Configuration
	err = toml.Unmarshal(f, &conf)
	if err != nil {
		return nil, err
	}
	if conf.Contract == nil {
		return nil, fmt.Errorf("missing contract section in %s", path)
	}
	if conf.Dispatch == nil || conf.Dispatch.Endpoint == "" {
		return nil, fmt.Errorf("missing dispatch endpoint in %s", path)
	}
	return &conf, nil
}

// Build converts the whole-unit amounts of the file into base units and
// loads the vault code.
func (cc *ContractConfiguration) Build() (*nft.Config, error) {
	decimals := cc.CurrencyDecimals
	if decimals == 0 {
		decimals = 24
	}
	price, err := decimal.NewFromString(cc.MintPrice)
	if err != nil {
		return nil, fmt.Errorf("invalid mint price %s", cc.MintPrice)
	}
	price = price.Shift(decimals)
	if price.Sign() < 0 || !price.Equal(price.Truncate(0)) {
		return nil, fmt.Errorf("invalid mint price %s", cc.MintPrice)
	}
	mintPrice, err := nft.ParseAmount(price.String())
	if err != nil {
		return nil, err
	}

	code, err := os.ReadFile(expandHome(cc.VaultCode))
	if err != nil {
		return nil, fmt.Errorf("read vault code: %w", err)
	}
	if cc.Metadata != nil && cc.Metadata.Spec == "" {
		cc.Metadata.Spec = nft.NFTMetadataSpec
	}

	return &nft.Config{
		AccountId:           cc.AccountId,
		OwnerId:             cc.OwnerId,
		Metadata:            cc.Metadata,
		MintPrice:           mintPrice,
		MintCurrency:        cc.MintCurrency,
		PaymentSplitPercent: uint256.NewInt(cc.PaymentSplitPercent),
		TotalSupply:         uint256.NewInt(cc.TotalSupply),
		BurnFee:             uint256.NewInt(cc.BurnFee),
		Treasury:            cc.Treasury,
		Royalty:             uint256.NewInt(cc.Royalty),
		VaultCode:           code,
		MaxGas:              cc.MaxGas,
	}, nil
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		usr, _ := user.Current()
		return filepath.Join(usr.HomeDir, path[2:])
	}
	return path
}

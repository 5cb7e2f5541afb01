package nft

import (
	"errors"
)

const NFTMetadataSpec = "nft-1.0.0"

type NFTContractMetadata struct {
	Spec          string `json:"spec" toml:"spec"`
	Name          string `json:"name" toml:"name"`
	Symbol        string `json:"symbol" toml:"symbol"`
	Icon          string `json:"icon,omitempty" toml:"icon"`
	BaseUri       string `json:"base_uri,omitempty" toml:"base-uri"`
	Reference     string `json:"reference,omitempty" toml:"reference"`
	ReferenceHash []byte `json:"reference_hash,omitempty" toml:"-"`
}

func (m *NFTContractMetadata) Validate() error {
	if m == nil {
		return errors.New("nft: contract metadata required")
	}
	if m.Spec != NFTMetadataSpec {
		return errors.New("nft: spec is not NFT metadata")
	}
	if (m.Reference == "") != (len(m.ReferenceHash) == 0) {
		return errors.New("nft: reference and reference hash must be set together")
	}
	if len(m.ReferenceHash) > 0 && len(m.ReferenceHash) != 32 {
		return errors.New("nft: reference hash has to be 32 bytes")
	}
	return nil
}

type TokenMetadata struct {
	Title         string `json:"title,omitempty"`
	Description   string `json:"description,omitempty"`
	Media         string `json:"media,omitempty"`
	MediaHash     []byte `json:"media_hash,omitempty"`
	Copies        uint64 `json:"copies,omitempty"`
	IssuedAt      string `json:"issued_at,omitempty"`
	ExpiresAt     string `json:"expires_at,omitempty"`
	StartsAt      string `json:"starts_at,omitempty"`
	UpdatedAt     string `json:"updated_at,omitempty"`
	Extra         string `json:"extra,omitempty"`
	Reference     string `json:"reference,omitempty"`
	ReferenceHash []byte `json:"reference_hash,omitempty"`
}

func (m *TokenMetadata) Validate() error {
	if m == nil {
		return errors.New("nft: token metadata required")
	}
	if (m.Media == "") != (len(m.MediaHash) == 0) {
		return errors.New("nft: media and media hash must be set together")
	}
	if len(m.MediaHash) > 0 && len(m.MediaHash) != 32 {
		return errors.New("nft: media hash has to be 32 bytes")
	}
	if (m.Reference == "") != (len(m.ReferenceHash) == 0) {
		return errors.New("nft: reference and reference hash must be set together")
	}
	if len(m.ReferenceHash) > 0 && len(m.ReferenceHash) != 32 {
		return errors.New("nft: reference hash has to be 32 bytes")
	}
	return nil
}

package nft

import (
	"encoding/json"
)

const (
	eventStandard = "nep171"
	eventVersion  = "1.0.0"
	eventPrefix   = "EVENT_JSON:"
)

type eventLog struct {
	Standard string      `json:"standard"`
	Version  string      `json:"version"`
	Event    string      `json:"event"`
	Data     interface{} `json:"data"`
}

type mintLog struct {
	OwnerId  string   `json:"owner_id"`
	TokenIds []string `json:"token_ids"`
}

type transferLog struct {
	AuthorizedId string   `json:"authorized_id,omitempty"`
	OldOwnerId   string   `json:"old_owner_id"`
	NewOwnerId   string   `json:"new_owner_id"`
	TokenIds     []string `json:"token_ids"`
	Memo         string   `json:"memo,omitempty"`
}

type burnLog struct {
	OwnerId  string   `json:"owner_id"`
	TokenIds []string `json:"token_ids"`
}

func formatEvent(event string, data interface{}) string {
	b, err := json.Marshal(eventLog{
		Standard: eventStandard,
		Version:  eventVersion,
		Event:    event,
		Data:     data,
	})
	if err != nil {
		panic(err)
	}
	return eventPrefix + string(b)
}

func mintEvent(owner, tokenId string) string {
	return formatEvent("nft_mint", []mintLog{{OwnerId: owner, TokenIds: []string{tokenId}}})
}

func transferEvent(authorized, oldOwner, newOwner, tokenId, memo string) string {
	return formatEvent("nft_transfer", []transferLog{{
		AuthorizedId: authorized,
		OldOwnerId:   oldOwner,
		NewOwnerId:   newOwner,
		TokenIds:     []string{tokenId},
		Memo:         memo,
	}})
}

func burnEvent(owner, tokenId string) string {
	return formatEvent("nft_burn", []burnLog{{OwnerId: owner, TokenIds: []string{tokenId}}})
}

package store

import (
	"github.com/MixinNetwork/mixin/common"
	"github.com/MixinNetwork/vaultnft/nft"
)

const (
	prefixTokenPayload = "TOKEN:PAYLOAD:"
	prefixTokenOwner   = "TOKEN:OWNER:"
)

func (s *badgerState) ReadToken(id string) (*nft.Token, error) {
	val, err := readValue(s.txn, []byte(prefixTokenPayload+id))
	if err != nil || val == nil {
		return nil, err
	}
	var token nft.Token
	err = common.MsgpackUnmarshal(val, &token)
	return &token, err
}

// WriteToken stores the token and moves it to the bucket of its owner.
func (s *badgerState) WriteToken(token *nft.Token) error {
	old, err := s.ReadToken(token.TokenId)
	if err != nil {
		return err
	}
	if old != nil && old.OwnerId != token.OwnerId {
		err = s.txn.Delete(tokenOwnerKey(old.OwnerId, old.TokenId))
		if err != nil {
			return err
		}
	}
	err = s.txn.Set([]byte(prefixTokenPayload+token.TokenId), common.MsgpackMarshalPanic(token))
	if err != nil {
		return err
	}
	return s.txn.Set(tokenOwnerKey(token.OwnerId, token.TokenId), []byte{1})
}

func (s *badgerState) DeleteToken(id string) error {
	old, err := s.ReadToken(id)
	if err != nil || old == nil {
		return err
	}
	err = s.txn.Delete(tokenOwnerKey(old.OwnerId, id))
	if err != nil {
		return err
	}
	return s.txn.Delete([]byte(prefixTokenPayload + id))
}

func (s *badgerState) ListTokens(from, limit int) ([]*nft.Token, error) {
	ids := listKeys(s.txn, []byte(prefixTokenPayload), from, limit)
	return s.readTokens(ids)
}

func (s *badgerState) CountTokens() (int, error) {
	return countKeys(s.txn, []byte(prefixTokenPayload)), nil
}

func (s *badgerState) ListTokensForOwner(owner string, from, limit int) ([]*nft.Token, error) {
	ids := listKeys(s.txn, tokenOwnerKey(owner, ""), from, limit)
	return s.readTokens(ids)
}

func (s *badgerState) CountTokensForOwner(owner string) (int, error) {
	return countKeys(s.txn, tokenOwnerKey(owner, "")), nil
}

func (s *badgerState) readTokens(ids []string) ([]*nft.Token, error) {
	tokens := make([]*nft.Token, 0, len(ids))
	for _, id := range ids {
		token, err := s.ReadToken(id)
		if err != nil {
			return nil, err
		}
		if token == nil {
			panic(id)
		}
		tokens = append(tokens, token)
	}
	return tokens, nil
}

func tokenOwnerKey(owner, id string) []byte {
	return []byte(prefixTokenOwner + owner + ":" + id)
}

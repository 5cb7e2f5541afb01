package store

const prefixHolder = "HOLDER:"

func (s *badgerState) AddHolder(account string) error {
	return s.txn.Set([]byte(prefixHolder+account), []byte{1})
}

func (s *badgerState) RemoveHolder(account string) error {
	return s.txn.Delete([]byte(prefixHolder + account))
}

func (s *badgerState) IsHolder(account string) (bool, error) {
	val, err := readValue(s.txn, []byte(prefixHolder+account))
	return val != nil, err
}

func (s *badgerState) ListHolders() ([]string, error) {
	return listKeys(s.txn, []byte(prefixHolder), 0, 0), nil
}

func (s *badgerState) CountHolders() (int, error) {
	return countKeys(s.txn, []byte(prefixHolder)), nil
}

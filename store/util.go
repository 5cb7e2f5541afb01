package store

import (
	"encoding/binary"
	"time"

	"github.com/dgraph-io/badger/v4"
)

func tsToBytes(ts time.Time) []byte {
	buf := make([]byte, 8)
	d := ts.UnixNano()
	binary.BigEndian.PutUint64(buf, uint64(d))
	return buf
}

func readValue(txn *badger.Txn, key []byte) ([]byte, error) {
	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

// listKeys returns the keys under prefix with the prefix stripped, in key
// order, skipping the first from entries. A zero limit means no limit.
func listKeys(txn *badger.Txn, prefix []byte, from, limit int) []string {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	var keys []string
	for it.Seek(opts.Prefix); it.Valid(); it.Next() {
		if from > 0 {
			from--
			continue
		}
		key := it.Item().Key()
		keys = append(keys, string(key[len(prefix):]))
		if len(keys) == limit {
			break
		}
	}
	return keys
}

func countKeys(txn *badger.Txn, prefix []byte) int {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	var count int
	for it.Seek(opts.Prefix); it.Valid(); it.Next() {
		count++
	}
	return count
}

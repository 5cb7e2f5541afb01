package dispatch

import (
	"encoding/binary"
	"sync"
	"time"
)

const clockStorePropertyKey = "DISPATCH:CLOCK:MONOTONIC"

// Clock hands out strictly increasing timestamps, persisted so that the
// ordering of outbox keys survives restarts and wall clock steps.
type Clock struct {
	sync.Mutex
	store Store
	now   time.Time
}

func NewClock(store Store) (*Clock, error) {
	bs, err := store.ReadProperty([]byte(clockStorePropertyKey))
	if err != nil {
		return nil, err
	}
	clock := &Clock{store: store, now: time.Now()}
	if len(bs) == 8 {
		ts := time.Unix(0, int64(binary.BigEndian.Uint64(bs)))
		if ts.After(clock.now) {
			clock.now = ts
		}
	}
	return clock, nil
}

func (c *Clock) Now() time.Time {
	c.Lock()
	defer c.Unlock()

	now := time.Now()
	if !now.After(c.now) {
		now = c.now.Add(time.Nanosecond)
	}
	c.now = now

	val := make([]byte, 8)
	binary.BigEndian.PutUint64(val, uint64(now.UnixNano()))
	err := c.store.WriteProperty([]byte(clockStorePropertyKey), val)
	if err != nil {
		panic(err)
	}
	return now
}

package dispatch

import (
	"fmt"
	"time"
)

type Configuration struct {
	Endpoint string `toml:"endpoint"`
	Batch    int    `toml:"batch"`
	Interval string `toml:"interval"`
	Timeout  string `toml:"timeout"`
}

func (conf *Configuration) PollInterval() (time.Duration, error) {
	return parseDuration(conf.Interval, time.Second)
}

func (conf *Configuration) RequestTimeout() (time.Duration, error) {
	return parseDuration(conf.Timeout, 10*time.Second)
}

func parseDuration(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid duration %s", s)
	}
	return d, nil
}

package rcon

import "time"

const (
	defaultDialTimeout    = 5 * time.Second
	defaultCommandTimeout = 5 * time.Second
	defaultMaxFrameBytes  = 1 << 20
)

// Config bounds one client session.
type Config struct {
	// DialTimeout caps transport establishment during Connect.
	DialTimeout time.Duration
	// CommandTimeout is the per-request correlation deadline; it also
	// bounds the auth exchange during Connect.
	CommandTimeout time.Duration
	// MaxFrameBytes rejects inbound frames whose declared length exceeds
	// this bound; such a frame tears the session down.
	MaxFrameBytes int
}

func DefaultConfig() Config {
	return Config{
		DialTimeout:    defaultDialTimeout,
		CommandTimeout: defaultCommandTimeout,
		MaxFrameBytes:  defaultMaxFrameBytes,
	}
}

func (c Config) WithDefaults() Config {
	if c.DialTimeout <= 0 {
		c.DialTimeout = defaultDialTimeout
	}
	if c.CommandTimeout <= 0 {
		c.CommandTimeout = defaultCommandTimeout
	}
	if c.MaxFrameBytes <= 0 {
		c.MaxFrameBytes = defaultMaxFrameBytes
	}
	return c
}

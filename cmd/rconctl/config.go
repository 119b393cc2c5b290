package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/St4ndd/NodeStack/internal/instance"
	"github.com/St4ndd/NodeStack/internal/rcon"
)

// fileConfig is the on-disk shape for rconctl targets.
type fileConfig struct {
	CommandTimeout string              `toml:"command_timeout"`
	DialTimeout    string              `toml:"dial_timeout"`
	Instances      []instance.Instance `toml:"instances"`
}

type ctlConfig struct {
	rcon      rcon.Config
	instances map[string]instance.Instance
}

func loadConfig(path string) (ctlConfig, error) {
	cfg := ctlConfig{
		rcon:      rcon.DefaultConfig(),
		instances: make(map[string]instance.Instance),
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return ctlConfig{}, fmt.Errorf("load rconctl config: %w", err)
	}

	if meta.IsDefined("command_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.CommandTimeout))
		if err != nil {
			return ctlConfig{}, fmt.Errorf("parse command_timeout: %w", err)
		}
		cfg.rcon.CommandTimeout = d
	}
	if meta.IsDefined("dial_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.DialTimeout))
		if err != nil {
			return ctlConfig{}, fmt.Errorf("parse dial_timeout: %w", err)
		}
		cfg.rcon.DialTimeout = d
	}

	for _, inst := range raw.Instances {
		if err := inst.Validate(); err != nil {
			return ctlConfig{}, err
		}
		if _, dup := cfg.instances[inst.ID]; dup {
			return ctlConfig{}, fmt.Errorf("duplicate instance id %q", inst.ID)
		}
		cfg.instances[inst.ID] = inst
	}
	if len(cfg.instances) == 0 {
		return ctlConfig{}, fmt.Errorf("no instances defined in %s", path)
	}
	return cfg, nil
}

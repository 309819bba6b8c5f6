// Copyright 2024 The Godis Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads the demo binary's tunables from flags, an
// optional config file and the environment, via viper.
package config

import (
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Values is the mutex-free shape of Config's tunables, used wherever a
// copy needs to be passed or returned by value (Apply's argument,
// Snapshot's result) without dragging Config's lock along for the
// ride.
type Values struct {
	// InitialCapacity hints the first Expand call on a fresh dictionary;
	// 0 leaves the dictionary to size itself from the first insert.
	InitialCapacity uint64

	// ResizeEnabled mirrors EnableResize/DisableResize at the policy
	// level: when false, expandIfNeeded only grows under the forced
	// load-factor ratio, not on every insert above capacity.
	ResizeEnabled bool

	// SampleWorkloadSize is how many keys the demo workload inserts.
	SampleWorkloadSize int

	// LogLevel is one of debug, verbose, notice, warning, error.
	LogLevel string
}

// Config holds the knobs the dictionary demo and its tests read.
type Config struct {
	Values

	mu sync.RWMutex
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Values: Values{
			InitialCapacity:    0,
			ResizeEnabled:      true,
			SampleWorkloadSize: 10000,
			LogLevel:           "notice",
		},
	}
}

var (
	globalConfig *Config
	once         sync.Once
)

// Instance returns the global configuration instance.
func Instance() *Config {
	once.Do(func() {
		globalConfig = Default()
	})
	return globalConfig
}

// Load reads configuration from an optional file path and environment
// variables prefixed DICTKV_, the environment taking priority over the
// file. It binds no command-line flags; callers layer those on with
// Apply.
func (c *Config) Load(configFile string) error {
	v := viper.New()
	v.SetEnvPrefix("dictkv")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("initial-capacity", c.InitialCapacity)
	v.SetDefault("resize-enabled", c.ResizeEnabled)
	v.SetDefault("sample-workload-size", c.SampleWorkloadSize)
	v.SetDefault("log-level", c.LogLevel)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "config: reading %s", configFile)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.InitialCapacity = uint64(v.GetInt64("initial-capacity"))
	c.ResizeEnabled = v.GetBool("resize-enabled")
	c.SampleWorkloadSize = v.GetInt("sample-workload-size")
	c.LogLevel = strings.ToLower(v.GetString("log-level"))

	return nil
}

// Apply overlays the non-zero InitialCapacity, SampleWorkloadSize and
// LogLevel fields of override onto c, used to let command-line flags
// take final precedence over file/env values. ResizeEnabled is not
// overlaid.
func (c *Config) Apply(override Values) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if override.InitialCapacity != 0 {
		c.InitialCapacity = override.InitialCapacity
	}
	if override.SampleWorkloadSize != 0 {
		c.SampleWorkloadSize = override.SampleWorkloadSize
	}
	if override.LogLevel != "" {
		c.LogLevel = override.LogLevel
	}
}

// Snapshot returns a copy of the configuration's values, safe to read
// without holding the lock further.
func (c *Config) Snapshot() Values {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Values
}

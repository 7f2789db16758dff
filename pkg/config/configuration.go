// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/matrixorigin/mo-vexec/pkg/common/moerr"
	"github.com/matrixorigin/mo-vexec/pkg/logutil"
)

const (
	defaultBatchRows      = 8192
	defaultWorkers        = 4
	defaultUnitLimit      = 256
	defaultArenaChunkSize = 64 << 10
	defaultPoolExpiry     = time.Second
)

// Duration wraps time.Duration so it can be written as "10ms" in toml.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// ExecParameters of the execution core
type ExecParameters struct {
	//default is 8192. the count of rows in a generated batch
	BatchRows int `toml:"batchRows"`

	//default is 4. the size of the worker pool running group by partitions
	Workers int `toml:"workers"`

	//default is 256. rows hashed per step when inserting group keys
	UnitLimit int `toml:"unitLimit"`

	//default is 64KB. the chunk size of the aggregation arena
	ArenaChunkSize int `toml:"arenaChunkSize"`

	//default is 1s. idle workers of the pool expire after it
	PoolExpiry Duration `toml:"poolExpiry"`
}

// Config is the toml layout of the mo-vexec configuration file.
type Config struct {
	Log  logutil.LogConfig `toml:"log"`
	Exec ExecParameters    `toml:"exec"`
}

// LoadConfig reads path, fills defaults and validates the result.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, errors.Wrapf(err, "decode config file %s", path)
	}
	cfg.SetDefaultValues()
	if err := cfg.Validate(context.Background()); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseConfig is LoadConfig over an in-memory document.
func ParseConfig(data string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.Decode(data, cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	cfg.SetDefaultValues()
	if err := cfg.Validate(context.Background()); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewDefaultConfig returns a config with every default filled.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	cfg.SetDefaultValues()
	return cfg
}

func (c *Config) SetDefaultValues() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Exec.BatchRows == 0 {
		c.Exec.BatchRows = defaultBatchRows
	}
	if c.Exec.Workers == 0 {
		c.Exec.Workers = defaultWorkers
	}
	if c.Exec.UnitLimit == 0 {
		c.Exec.UnitLimit = defaultUnitLimit
	}
	if c.Exec.ArenaChunkSize == 0 {
		c.Exec.ArenaChunkSize = defaultArenaChunkSize
	}
	if c.Exec.PoolExpiry.Duration == 0 {
		c.Exec.PoolExpiry.Duration = defaultPoolExpiry
	}
}

func (c *Config) Validate(ctx context.Context) error {
	if c.Exec.BatchRows < 0 {
		return moerr.NewBadConfig(ctx, "batchRows %d", c.Exec.BatchRows)
	}
	if c.Exec.Workers < 0 {
		return moerr.NewBadConfig(ctx, "workers %d", c.Exec.Workers)
	}
	if c.Exec.UnitLimit < 0 {
		return moerr.NewBadConfig(ctx, "unitLimit %d", c.Exec.UnitLimit)
	}
	if c.Exec.ArenaChunkSize < 0 {
		return moerr.NewBadConfig(ctx, "arenaChunkSize %d", c.Exec.ArenaChunkSize)
	}
	if c.Exec.PoolExpiry.Duration < 0 {
		return moerr.NewBadConfig(ctx, "poolExpiry %s", c.Exec.PoolExpiry)
	}
	return nil
}

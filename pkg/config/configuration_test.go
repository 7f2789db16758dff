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
	"os"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/mo-vexec/pkg/common/moerr"
)

func TestLoadConfig(t *testing.T) {
	data := `
[log]
level = "debug"
format = "json"

[exec]
workers = 8
unitLimit = 128
poolExpiry = "10ms"
`
	file := path.Join(t.TempDir(), "vexec.toml")
	require.NoError(t, os.WriteFile(file, []byte(data), 0600))

	cfg, err := LoadConfig(file)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "json", cfg.Log.Format)
	require.Equal(t, 8, cfg.Exec.Workers)
	require.Equal(t, 128, cfg.Exec.UnitLimit)
	require.Equal(t, 10*time.Millisecond, cfg.Exec.PoolExpiry.Duration)
	// defaults
	require.Equal(t, defaultBatchRows, cfg.Exec.BatchRows)
	require.Equal(t, defaultArenaChunkSize, cfg.Exec.ArenaChunkSize)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(path.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)

	_, err = ParseConfig("[exec]\nworkers = -1\n")
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadConfig))

	_, err = ParseConfig("[exec\n")
	require.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "console", cfg.Log.Format)
	require.Equal(t, defaultWorkers, cfg.Exec.Workers)
	require.Equal(t, defaultUnitLimit, cfg.Exec.UnitLimit)
	require.Equal(t, defaultPoolExpiry, cfg.Exec.PoolExpiry.Duration)
	require.NoError(t, cfg.Validate(context.TODO()))
}

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

package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/mo-vexec/pkg/common/moerr"
	"github.com/matrixorigin/mo-vexec/pkg/config"
	"github.com/matrixorigin/mo-vexec/pkg/sql/plan/function"
)

func TestListFunctions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, listFunctions(context.TODO(), &buf))
	out := buf.String()
	require.Contains(t, out, "plus")
	require.Contains(t, out, "tostring")
	require.Contains(t, out, "monotonic")
}

func TestDescribeFeatures(t *testing.T) {
	binary := function.FunctionFeatures{}.WithDeterministic().WithMonotonicity().WithNumArgs(2)
	require.Equal(t, "args=2 deterministic monotonic", describeFeatures(binary))
	variadic := function.FunctionFeatures{}.WithVariadicArgs(1, function.VariadicArgs).WithBoolFunc().WithNegativeFunction("not")
	require.Equal(t, "args=1+ bool negation=not", describeFeatures(variadic))
	require.Equal(t, "args=1..3", describeFeatures(function.FunctionFeatures{}.WithVariadicArgs(1, 3)))
}

func TestConfigCommand(t *testing.T) {
	var buf bytes.Buffer
	cmd := rootCommand()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"config"})
	require.NoError(t, cmd.ExecuteContext(context.TODO()))

	cfg, err := config.ParseConfig(buf.String())
	require.NoError(t, err)
	require.Equal(t, config.NewDefaultConfig().Exec, cfg.Exec)
}

func TestBench(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Exec.BatchRows = 64
	cfg.Exec.Workers = 2
	cfg.Exec.PoolExpiry = config.Duration{Duration: 10 * time.Millisecond}

	for _, keys := range []string{"int", "string"} {
		var buf bytes.Buffer
		bo := benchOptions{rows: 500, groups: 7, partitions: 3, keys: keys, seed: 1, show: 3}
		require.NoError(t, runBench(context.TODO(), cfg, bo, &buf))
		out := buf.String()
		require.True(t, strings.HasPrefix(out, "groups: 7, input rows: 1500"), out)
		require.Contains(t, out, "... 4 more")
	}
}

func TestBenchInvalidOptions(t *testing.T) {
	cfg := config.NewDefaultConfig()
	var buf bytes.Buffer
	err := runBench(context.TODO(), cfg, benchOptions{rows: 10, groups: 0, partitions: 1, keys: "int"}, &buf)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidArg))
	err = runBench(context.TODO(), cfg, benchOptions{rows: 10, groups: 1, partitions: 1, keys: "uuid"}, &buf)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidArg))
}

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

package group

import (
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/matrixorigin/mo-vexec/pkg/common/moerr"
	"github.com/matrixorigin/mo-vexec/pkg/config"
	"github.com/matrixorigin/mo-vexec/pkg/container/batch"
	"github.com/matrixorigin/mo-vexec/pkg/vm/process"
)

// Parallel runs one group by worker per partition on a pool of
// cfg.Workers goroutines, merges their states in partition order and
// finalizes the result. build must return a new Argument on each call,
// workers share nothing.
//
// The first worker error cancels the others and is returned.
func Parallel(proc *process.Process, cfg config.ExecParameters, build func() *Argument, parts [][]*batch.Batch) (*batch.Batch, error) {
	if len(parts) == 0 {
		parts = [][]*batch.Batch{nil}
	}
	workers := cfg.Workers
	if workers <= 0 || workers > len(parts) {
		workers = len(parts)
	}
	opts := []ants.Option{ants.WithPanicHandler(func(v any) {
		proc.Error("group by pool panic", zap.Any("panic", v))
	})}
	if cfg.PoolExpiry.Duration > 0 {
		opts = append(opts, ants.WithExpiryDuration(cfg.PoolExpiry.Duration))
	}
	pool, err := ants.NewPool(workers, opts...)
	if err != nil {
		return nil, moerr.ConvertGoError(proc.Context(), err)
	}
	defer pool.Release()

	parent := process.NewFromProc(proc)
	defer parent.Cancel()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
			parent.Cancel()
		}
	}

	args := make([]*Argument, len(parts))
	for i := range parts {
		i := i
		args[i] = build()
		wg.Add(1)
		if err = pool.Submit(func() {
			defer wg.Done()
			if err := runWorker(process.NewFromProc(parent), args[i], parts[i]); err != nil {
				proc.Error("group by worker failed", zap.Int("partition", i), zap.Error(err))
				fail(err)
			}
		}); err != nil {
			wg.Done()
			proc.Error("submit group by worker", zap.Error(err))
			fail(moerr.ConvertGoError(proc.Context(), err))
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		for _, arg := range args {
			if arg != nil {
				arg.Free()
			}
		}
		return nil, firstErr
	}

	result := args[0]
	for _, arg := range args[1:] {
		if err = result.Merge(proc, arg); err != nil {
			result.Free()
			return nil, err
		}
	}
	defer result.Free()
	bat, err := result.Finalize(proc)
	if err != nil {
		return nil, err
	}
	proc.Debug("group by done", zap.Int("partitions", len(parts)), zap.Int("groups", bat.RowCount()))
	return bat, nil
}

func runWorker(proc *process.Process, arg *Argument, bats []*batch.Batch) (err error) {
	defer proc.Cancel()
	defer func() {
		if e := recover(); e != nil {
			err = moerr.ConvertPanicError(proc.Context(), e)
		}
	}()
	if err = arg.Prepare(proc); err != nil {
		return err
	}
	for _, bat := range bats {
		if err = proc.Context().Err(); err != nil {
			return moerr.ConvertGoError(proc.Context(), err)
		}
		if err = arg.Accumulate(proc, bat); err != nil {
			return err
		}
	}
	return nil
}

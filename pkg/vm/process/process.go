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

package process

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/matrixorigin/mo-vexec/pkg/common/arena"
	"github.com/matrixorigin/mo-vexec/pkg/logutil"
	"github.com/matrixorigin/mo-vexec/pkg/logutil/logutil2"
)

const (
	DefaultBatchRows = 8192
	DefaultUnitLimit = 256
)

// New creates a Process with a fresh query id.
func New(ctx context.Context, lim Limitation) *Process {
	if lim.BatchRows <= 0 {
		lim.BatchRows = DefaultBatchRows
	}
	if lim.UnitLimit <= 0 {
		lim.UnitLimit = DefaultUnitLimit
	}
	if lim.ArenaChunkSize <= 0 {
		lim.ArenaChunkSize = arena.DefaultChunkSize
	}
	proc := &Process{
		Id:  uuid.NewString(),
		Lim: lim,
	}
	proc.Ctx, proc.Cancel = context.WithCancel(logutil.WithFields(ctx, zap.String("query-id", proc.Id)))
	proc.newArena = func() *arena.Arena {
		return arena.New(proc.Lim.ArenaChunkSize)
	}
	return proc
}

// NewFromProc derives a child for one worker. Cancelling the parent
// cancels the child.
func NewFromProc(p *Process) *Process {
	proc := &Process{
		Id:        p.Id,
		Lim:       p.Lim,
		AnalInfos: p.AnalInfos,
		newArena:  p.newArena,
	}
	proc.Ctx, proc.Cancel = context.WithCancel(p.Ctx)
	return proc
}

func (proc *Process) QueryId() string {
	return proc.Id
}

func (proc *Process) GetLim() Limitation {
	return proc.Lim
}

// NewArena returns an arena sized by the process limits.
func (proc *Process) NewArena() *arena.Arena {
	if proc == nil || proc.newArena == nil {
		return arena.New(arena.DefaultChunkSize)
	}
	return proc.newArena()
}

// Context never returns nil, so expressions can be evaluated without a
// process in tests.
func (proc *Process) Context() context.Context {
	if proc == nil || proc.Ctx == nil {
		return context.Background()
	}
	return proc.Ctx
}

func (proc *Process) Info(msg string, fields ...zap.Field) {
	logutil2.Info(proc.Context(), msg, fields...)
}

func (proc *Process) Debug(msg string, fields ...zap.Field) {
	logutil2.Debug(proc.Context(), msg, fields...)
}

func (proc *Process) Warn(msg string, fields ...zap.Field) {
	logutil2.Warn(proc.Context(), msg, fields...)
}

func (proc *Process) Error(msg string, fields ...zap.Field) {
	logutil2.Error(proc.Context(), msg, fields...)
}

func (proc *Process) Debugf(msg string, args ...any) {
	logutil2.Debugf(proc.Context(), msg, args...)
}

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
	"time"

	"github.com/matrixorigin/mo-vexec/pkg/common/arena"
)

type Limitation struct {
	// BatchRows is the max rows for a batch.
	BatchRows int64
	// UnitLimit is the number of rows hashed per step by group by.
	UnitLimit int
	// ArenaChunkSize is the chunk size of aggregation arenas.
	ArenaChunkSize int
}

// AnalyzeInfo collects the counters of one operator, shared by the workers
// running it.
type AnalyzeInfo struct {
	NodeId       int32
	InputRows    int64
	OutputRows   int64
	InputSize    int64
	OutputSize   int64
	MemorySize   int64
	TimeConsumed int64 // nanoseconds
}

// Analyze is the per-worker handle an operator records its counters with.
type Analyze interface {
	Start()
	Stop()
	Alloc(int64)
	Input(rows, size int)
	Output(rows, size int)
}

type analyze struct {
	start    time.Time
	analInfo *AnalyzeInfo
}

// Process carries the context and limits of one query through the
// operators. Workers of a parallel operator derive their own Process with
// NewFromProc and never share one.
type Process struct {
	Id  string
	Lim Limitation

	Ctx    context.Context
	Cancel context.CancelFunc

	AnalInfos []*AnalyzeInfo

	newArena func() *arena.Arena
}

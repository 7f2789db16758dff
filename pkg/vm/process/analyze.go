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
	"sync/atomic"
	"time"
)

func NewAnalyzeInfo(nodeId int32) *AnalyzeInfo {
	return &AnalyzeInfo{
		NodeId: nodeId,
	}
}

// AddAnalyzeInfo registers a node and returns its index for GetAnalyze.
func (proc *Process) AddAnalyzeInfo(nodeId int32) int {
	proc.AnalInfos = append(proc.AnalInfos, NewAnalyzeInfo(nodeId))
	return len(proc.AnalInfos) - 1
}

// GetAnalyze returns a recorder for node idx, an unknown idx records
// nothing.
func (proc *Process) GetAnalyze(idx int) Analyze {
	if idx >= len(proc.AnalInfos) || idx < 0 {
		return &analyze{analInfo: nil}
	}
	return &analyze{analInfo: proc.AnalInfos[idx]}
}

func (a *analyze) Start() {
	a.start = time.Now()
}

func (a *analyze) Stop() {
	if a.analInfo != nil {
		atomic.AddInt64(&a.analInfo.TimeConsumed, int64(time.Since(a.start)))
	}
}

func (a *analyze) Alloc(size int64) {
	if a.analInfo != nil {
		atomic.AddInt64(&a.analInfo.MemorySize, size)
	}
}

func (a *analyze) Input(rows, size int) {
	if a.analInfo != nil {
		atomic.AddInt64(&a.analInfo.InputSize, int64(size))
		atomic.AddInt64(&a.analInfo.InputRows, int64(rows))
	}
}

func (a *analyze) Output(rows, size int) {
	if a.analInfo != nil {
		atomic.AddInt64(&a.analInfo.OutputSize, int64(size))
		atomic.AddInt64(&a.analInfo.OutputRows, int64(rows))
	}
}

// Copyright 2024 Matrix Origin
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

package colexec

import (
	"github.com/matrixorigin/mo-vexec/pkg/container/batch"
	"github.com/matrixorigin/mo-vexec/pkg/vm/process"
)

// Projection evaluates a list of expressions into the columns of a new
// batch. The output may share vectors with the input.
type Projection struct {
	bat           *batch.Batch
	Attrs         []string
	ProjExecutors []ExpressionExecutor

	MaxAllocSize int64
}

func (projection Projection) TypeName() string {
	return "project"
}

func NewProjection(attrs []string, executors ...ExpressionExecutor) *Projection {
	if len(attrs) != len(executors) {
		attrs = make([]string, len(executors))
		for i, e := range executors {
			attrs[i] = e.String()
		}
	}
	return &Projection{Attrs: attrs, ProjExecutors: executors}
}

func (projection *Projection) Eval(bat *batch.Batch, proc *process.Process) (*batch.Batch, error) {
	if bat == nil || bat.RowCount() == 0 {
		return bat, nil
	}

	projection.bat = batch.NewWithSize(len(projection.ProjExecutors))
	projection.bat.Attrs = projection.Attrs
	for i := range projection.ProjExecutors {
		vec, err := projection.ProjExecutors[i].Eval(proc, bat)
		if err != nil {
			projection.bat = nil
			return nil, err
		}
		// one vector must not be two columns
		for _, prev := range projection.bat.Vecs[:i] {
			if prev == vec {
				vec = vec.Dup()
				break
			}
		}
		projection.bat.Vecs[i] = vec
	}
	projection.bat.SetRowCount(bat.RowCount())
	projection.MaxAllocSize = max(projection.MaxAllocSize, int64(projection.bat.Size()))
	return projection.bat, nil
}

func (projection *Projection) Free(proc *process.Process) {
	if projection != nil {
		for i := range projection.ProjExecutors {
			if projection.ProjExecutors[i] != nil {
				projection.ProjExecutors[i].Free()
			}
		}
		projection.bat = nil
	}
}

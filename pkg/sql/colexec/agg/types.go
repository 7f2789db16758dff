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

package agg

import (
	"encoding"

	"github.com/matrixorigin/mo-vexec/pkg/common/arena"
	"github.com/matrixorigin/mo-vexec/pkg/container/types"
	"github.com/matrixorigin/mo-vexec/pkg/container/vector"
)

const (
	GroupNotMatch = 0
)

const (
	AggregateCount = iota
	AggregateStarCount
	AggregateSum
	AggregateAvg
	AggregateMin
	AggregateMax
	AggregateAnyValue
	AggregateApproxCountDistinct
	AggregateStdDevPop
)

// Names maps the aggregate ids to the names New accepts.
var Names = [...]string{
	AggregateCount:               "count",
	AggregateStarCount:           "starcount",
	AggregateSum:                 "sum",
	AggregateAvg:                 "avg",
	AggregateMin:                 "min",
	AggregateMax:                 "max",
	AggregateAnyValue:            "any_value",
	AggregateApproxCountDistinct: "approx_count_distinct",
	AggregateStdDevPop:           "stddev_pop",
}

// Agg accumulates one value per group. Groups are addressed by their index,
// group id minus one, and are created by Grows in order.
//
//go:generate mockgen -source=types.go -destination=mock_agg/mock_agg.go -package=mock_agg
type Agg interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler

	Name() string

	// OutputType return the result type of the agg.
	OutputType() types.Type

	// InputType return the input type of the agg.
	InputType() types.Type

	// Grows allocates n more groups. Variable length state is copied into a,
	// which must live until Free.
	Grows(n int, a *arena.Arena) error

	// Fill adds one row of vec to a group.
	Fill(groupIndex int64, row int64, vec *vector.Vector) error

	// BulkFill adds the first length rows of vec to one group.
	BulkFill(groupIndex int64, vec *vector.Vector, length int) error

	// BatchFill adds rows [offset, offset+len(groups)) of vec. groups[i] is
	// the group id of row offset+i, GroupNotMatch skips the row.
	BatchFill(offset int64, groups []uint64, vec *vector.Vector) error

	// Merge folds group otherIndex of other, an agg of the same kind, into
	// group groupIndex.
	Merge(other Agg, groupIndex int64, otherIndex int64) error

	// Eval returns one row per group.
	Eval() (*vector.Vector, error)

	// Dup returns an empty agg of the same kind and types.
	Dup() Agg

	Free()
}

// AggStruct is the private state of an aggregate besides the per group
// result, like counts or sketches.
type AggStruct interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler

	Grows(n int, a *arena.Arena)
}

// EncodeAgg is the wire form of an agg with its state.
type EncodeAgg struct {
	Op         int
	InputType  types.Type
	OutputType types.Type
	Es         []bool
	Da         []byte
	Private    []byte
}

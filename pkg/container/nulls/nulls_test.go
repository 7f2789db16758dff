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

package nulls

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNulls(t *testing.T) {
	nsp := &Nulls{}
	require.False(t, nsp.Any())
	require.False(t, Contains(nsp, 1))
	require.Equal(t, "[]", String(nsp))

	Add(nsp, 1, 5, 9)
	require.True(t, nsp.Any())
	require.Equal(t, 3, nsp.Count())
	require.True(t, nsp.Contains(5))
	require.Equal(t, "[1 5 9]", String(nsp))

	Del(nsp, 5)
	require.Equal(t, []uint64{1, 9}, nsp.ToArray())

	AddRange(nsp, 20, 23)
	require.Equal(t, []uint64{1, 9, 20, 21, 22}, nsp.ToArray())
	RemoveRange(nsp, 20, 22)
	require.Equal(t, []uint64{1, 9, 22}, nsp.ToArray())

	require.Equal(t, 2, FilterCount(nsp, []int64{0, 1, 9}))

	c := nsp.Clone()
	Reset(nsp)
	require.False(t, nsp.Any())
	require.Equal(t, 3, c.Count())
}

func TestNullsSetOps(t *testing.T) {
	a := Build(10, 1, 2)
	b := Build(10, 2, 3)
	r := &Nulls{}
	Or(a, b, r)
	require.Equal(t, []uint64{1, 2, 3}, r.ToArray())

	Or(&Nulls{}, nil, r)
	require.False(t, r.Any())

	x := &Nulls{}
	x.Or(a)
	require.True(t, x.IsSame(a))
	Set(x, b)
	require.Equal(t, []uint64{1, 2, 3}, x.ToArray())

	y := &Nulls{}
	SetWithBias(y, a, 10)
	require.Equal(t, []uint64{11, 12}, y.ToArray())

	m := Range(Build(10, 3, 4, 8), 2, 6, 2, &Nulls{})
	require.Equal(t, []uint64{1, 2}, m.ToArray())

	f := Filter(Build(10, 0, 4, 6), []int64{4, 5, 6})
	require.Equal(t, []uint64{0, 2}, f.ToArray())
}

func TestNullsSerialize(t *testing.T) {
	a := Build(0, 7, 70000)
	data, err := a.Show()
	require.NoError(t, err)
	b := &Nulls{}
	require.NoError(t, b.Read(data))
	require.True(t, a.IsSame(b))

	var rows []uint64
	b.Foreach(func(row uint64) { rows = append(rows, row) })
	require.Equal(t, []uint64{7, 70000}, rows)
}

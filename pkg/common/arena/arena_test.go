// Copyright 2021 - 2022 Matrix Origin
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

package arena

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArena(t *testing.T) {
	a := New(16)
	r1 := a.Copy([]byte("hello"))
	r2 := a.Copy([]byte("world!!!"))
	// does not fit the first chunk anymore
	r3 := a.Copy([]byte("matrixone"))
	require.Equal(t, "hello", string(a.Bytes(r1)))
	require.Equal(t, "world!!!", string(a.Bytes(r2)))
	require.Equal(t, "matrixone", string(a.Bytes(r3)))
	require.Equal(t, 2, a.Chunks())
	require.Equal(t, 22, a.Size())
	require.Equal(t, 32, a.Reserved())

	// larger than the chunk size
	big := make([]byte, 40)
	for i := range big {
		big[i] = byte(i)
	}
	r4 := a.Copy(big)
	require.Equal(t, big, a.Bytes(r4))
	require.Equal(t, 3, a.Chunks())

	// refs stay valid after more allocations
	for i := 0; i < 100; i++ {
		a.Copy([]byte(fmt.Sprintf("k%d", i)))
	}
	require.Equal(t, "hello", string(a.Bytes(r1)))

	a.Free()
	require.Equal(t, 0, a.Chunks())
	require.Equal(t, 0, a.Size())
}

func TestArenaEmpty(t *testing.T) {
	a := New(0)
	ref := a.Alloc(0)
	require.Nil(t, a.Bytes(ref))
	require.Equal(t, 0, a.Chunks())

	ref = a.Alloc(8)
	b := a.Bytes(ref)
	require.Equal(t, make([]byte, 8), b)
	b[0] = 1
	require.Equal(t, byte(1), a.Bytes(ref)[0])
	// writes through a ref never spill into the next allocation
	next := a.Alloc(1)
	require.Equal(t, 1, len(a.Bytes(next)))
	require.Equal(t, byte(0), a.Bytes(next)[0])
}

// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package hashtable

import (
	"fmt"
	"testing"

	"github.com/matrixorigin/mo-vexec/pkg/common/arena"
	"github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/require"
)

func TestBytesHash(t *testing.T) {
	keys := []string{"", "a", "ab", "abc", "abcd", "abcde", "abcdefgh", "abcdefghijklmnop",
		"abcdefghijklmnopq", "Discard medicine more than two years old, then some more bytes past forty eight."}
	seen := make(map[uint64]string)
	for _, k := range keys {
		h := BytesHash([]byte(k))
		require.Equal(t, h, BytesHash([]byte(k)), k)
		prev, ok := seen[h]
		require.False(t, ok, "%q collides with %q", k, prev)
		seen[h] = k
	}
	require.NotEqual(t, IntHash(1), IntHash(2))
}

func TestFixedMap(t *testing.T) {
	convey.Convey("fixed map", t, func() {
		var m FixedMap
		m.Init(256)

		v, inserted := m.Insert(7)
		convey.So(v, convey.ShouldEqual, 1)
		convey.So(inserted, convey.ShouldBeTrue)
		v, inserted = m.Insert(0)
		convey.So(v, convey.ShouldEqual, 2)
		convey.So(inserted, convey.ShouldBeTrue)
		v, inserted = m.Insert(7)
		convey.So(v, convey.ShouldEqual, 1)
		convey.So(inserted, convey.ShouldBeFalse)

		values := make([]uint64, 4)
		m.InsertBatch([]uint64{255, 7, 255, 3}, values)
		convey.So(values, convey.ShouldResemble, []uint64{3, 1, 3, 4})
		convey.So(m.Cardinality(), convey.ShouldEqual, 4)
		convey.So(m.Find(3), convey.ShouldEqual, 4)
		convey.So(m.Find(9), convey.ShouldEqual, 0)
		convey.So(m.Find(1000), convey.ShouldEqual, 0)

		convey.Convey("iterator visits each key once", func() {
			var it FixedMapIterator
			it.Init(&m)
			got := make(map[uint32]uint64)
			for {
				k, v, err := it.Next()
				if err != nil {
					convey.So(err, convey.ShouldEqual, ErrIteratorEnd)
					break
				}
				got[k] = v
			}
			convey.So(got, convey.ShouldResemble, map[uint32]uint64{0: 2, 3: 4, 7: 1, 255: 3})
		})
	})
}

func TestInt64HashMap(t *testing.T) {
	convey.Convey("int64 hash map", t, func() {
		var m Int64HashMap
		m.Init()

		v, inserted := m.Insert(0)
		convey.So(v, convey.ShouldEqual, 1)
		convey.So(inserted, convey.ShouldBeTrue)
		v, inserted = m.Insert(0)
		convey.So(v, convey.ShouldEqual, 1)
		convey.So(inserted, convey.ShouldBeFalse)

		convey.Convey("grows past the initial buckets", func() {
			const n = 10000
			keys := make([]uint64, n)
			for i := range keys {
				keys[i] = uint64(i) * 0x9e3779b97f4a7c15
			}
			values := make([]uint64, n)
			m.InsertBatch(keys, values)
			// keys[0] is zero and was inserted first
			convey.So(values[0], convey.ShouldEqual, 1)
			for i := 1; i < n; i++ {
				convey.So(values[i], convey.ShouldEqual, uint64(i+1))
			}
			convey.So(m.Cardinality(), convey.ShouldEqual, n)

			found := make([]uint64, n)
			m.FindBatch(keys, found)
			convey.So(found, convey.ShouldResemble, values)
			convey.So(m.Find(12345), convey.ShouldEqual, 0)

			var it Int64HashMapIterator
			it.Init(&m)
			cnt := 0
			mappedSeen := make(map[uint64]bool)
			for {
				cell, err := it.Next()
				if err != nil {
					break
				}
				cnt++
				mappedSeen[cell.Mapped] = true
			}
			convey.So(cnt, convey.ShouldEqual, n)
			convey.So(len(mappedSeen), convey.ShouldEqual, n)
		})
	})
}

func TestStringHashMap(t *testing.T) {
	convey.Convey("string hash map", t, func() {
		a := arena.New(1024)
		var m StringHashMap
		m.Init(a)

		keys := [][]byte{[]byte("1a"), []byte("2b"), []byte("4d"), []byte("2b"), {}, []byte("1a")}
		values := make([]uint64, len(keys))
		m.InsertBatch(keys, values)
		convey.So(values, convey.ShouldResemble, []uint64{1, 2, 3, 2, 4, 1})
		convey.So(m.Cardinality(), convey.ShouldEqual, 4)
		// only new keys are copied
		convey.So(a.Size(), convey.ShouldEqual, 6)

		buf := []byte("4d")
		v, inserted := m.Insert(buf)
		convey.So(v, convey.ShouldEqual, 3)
		convey.So(inserted, convey.ShouldBeFalse)
		buf[0] = '9'
		convey.So(m.Find([]byte("4d")), convey.ShouldEqual, 3)
		convey.So(m.Find([]byte("9d")), convey.ShouldEqual, 0)

		convey.Convey("resize keeps every key", func() {
			const n = 5000
			for i := 0; i < n; i++ {
				m.Insert([]byte(fmt.Sprintf("key-%d", i)))
			}
			convey.So(m.Cardinality(), convey.ShouldEqual, n+4)
			for i := 0; i < n; i++ {
				convey.So(m.Find([]byte(fmt.Sprintf("key-%d", i))), convey.ShouldEqual, uint64(i+5))
			}

			var it StringHashMapIterator
			it.Init(&m)
			got := make(map[string]uint64)
			for {
				k, v, err := it.Next()
				if err != nil {
					break
				}
				got[string(k)] = v
			}
			convey.So(len(got), convey.ShouldEqual, n+4)
			convey.So(got["2b"], convey.ShouldEqual, 2)
			convey.So(got[""], convey.ShouldEqual, 4)
		})
	})
}

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

package hashmap

import (
	"encoding/binary"

	"github.com/matrixorigin/mo-vexec/pkg/common/moerr"
	"github.com/matrixorigin/mo-vexec/pkg/container/types"
	"github.com/matrixorigin/mo-vexec/pkg/container/vector"
)

const (
	flagValue byte = 0
	flagNull  byte = 1
)

// ChooseKeyMethod sums the physical widths of typs, one extra byte for the
// null flag of each nullable column. Fixed width rows of at most 8 bytes
// are packed into the smallest unsigned integer that holds them.
func ChooseKeyMethod(typs []types.Type) KeyMethod {
	width := 0
	for _, typ := range typs {
		if typ.IsVarlen() {
			return Serialized
		}
		width += typ.TypeSize()
		if typ.Nullable {
			width++
		}
	}
	switch {
	case width <= 1:
		return KeysU8
	case width <= 2:
		return KeysU16
	case width <= 4:
		return KeysU32
	case width <= 8:
		return KeysU64
	}
	return Serialized
}

// FixedKeyBuilder packs rows into integers, the first column in the highest
// bits. A nullable column contributes its flag byte before its value, and a
// null value packs as zero bits with flag 1.
type FixedKeyBuilder struct {
	typs []types.Type
}

func NewFixedKeyBuilder(typs []types.Type) *FixedKeyBuilder {
	return &FixedKeyBuilder{typs: typs}
}

// BuildKeys writes the keys of rows [start, start+n) of vecs to keys[:n].
func (b *FixedKeyBuilder) BuildKeys(vecs []*vector.Vector, start, n int, keys []uint64) {
	keys = keys[:n]
	for i := range keys {
		keys[i] = 0
	}
	for c, vec := range vecs {
		typ := b.typs[c]
		w := typ.TypeSize()
		hasNull := typ.Nullable && vec.GetNulls().Any()
		isAny := vec.GetType().Oid == types.T_any
		if !hasNull && !isAny && !vec.IsConst() {
			switch w {
			case 1:
				packColumn(keys, vector.MustFixedCol[uint8](vec)[start:start+n], typ.Nullable)
			case 2:
				packColumn(keys, vector.MustFixedCol[uint16](vec)[start:start+n], typ.Nullable)
			case 4:
				packColumn(keys, vector.MustFixedCol[uint32](vec)[start:start+n], typ.Nullable)
			case 8:
				packColumn(keys, vector.MustFixedCol[uint64](vec)[start:start+n], typ.Nullable)
			}
			continue
		}
		for i := range keys {
			row := start + i
			isNull := isAny || vec.IsNull(row)
			if typ.Nullable {
				keys[i] <<= 8
				if isNull {
					keys[i] |= uint64(flagNull)
				}
			}
			if w == 0 {
				continue
			}
			keys[i] <<= 8 * w
			if !isNull {
				keys[i] |= readBits(vec.GetRawBytesAt(row))
			}
		}
	}
}

func packColumn[T uint8 | uint16 | uint32 | uint64](keys []uint64, vals []T, nullable bool) {
	var zero T
	shift := 8 * sizeOf(zero)
	if nullable {
		shift += 8
	}
	for i, v := range vals {
		// shifting a single 8 byte column by 64 clears the key as wanted
		keys[i] = keys[i]<<shift | uint64(v)
	}
}

func sizeOf[T uint8 | uint16 | uint32 | uint64](v T) uint {
	switch any(v).(type) {
	case uint8:
		return 1
	case uint16:
		return 2
	case uint32:
		return 4
	}
	return 8
}

func readBits(data []byte) uint64 {
	switch len(data) {
	case 1:
		return uint64(data[0])
	case 2:
		return uint64(types.DecodeFixed[uint16](data))
	case 4:
		return uint64(types.DecodeFixed[uint32](data))
	case 8:
		return types.DecodeFixed[uint64](data)
	}
	panic(moerr.NewInternalErrorNoCtx("fixed key column of %d bytes", len(data)))
}

func appendBits(vec *vector.Vector, w int, bits uint64, isNull bool) {
	switch w {
	case 0:
		vec.AppendNull()
	case 1:
		vector.AppendFixed(vec, uint8(bits), isNull)
	case 2:
		vector.AppendFixed(vec, uint16(bits), isNull)
	case 4:
		vector.AppendFixed(vec, uint32(bits), isNull)
	case 8:
		vector.AppendFixed(vec, bits, isNull)
	}
}

func newKeyVectors(typs []types.Type, rows int) []*vector.Vector {
	vecs := make([]*vector.Vector, len(typs))
	for i, typ := range typs {
		vecs[i] = vector.NewVec(typ)
		vecs[i].PreExtend(rows)
	}
	return vecs
}

// DecodeFixedKeys unpacks keys into one vector per column of typs.
func DecodeFixedKeys(keys []uint64, typs []types.Type) []*vector.Vector {
	vecs := newKeyVectors(typs, len(keys))
	widths := make([]int, len(typs))
	for c, typ := range typs {
		widths[c] = typ.TypeSize()
	}
	var bits [16]uint64
	var nulls [16]bool
	vals, isNulls := bits[:0], nulls[:0]
	if len(typs) > len(bits) {
		vals, isNulls = make([]uint64, 0, len(typs)), make([]bool, 0, len(typs))
	}
	vals, isNulls = vals[:len(typs)], isNulls[:len(typs)]
	for _, key := range keys {
		// the last column sits in the lowest bits
		for c := len(typs) - 1; c >= 0; c-- {
			w := widths[c]
			if w > 0 {
				if w == 8 {
					vals[c] = key
					key = 0
				} else {
					vals[c] = key & (1<<(8*w) - 1)
					key >>= 8 * w
				}
			}
			isNulls[c] = typs[c].Oid == types.T_any
			if typs[c].Nullable {
				isNulls[c] = byte(key) == flagNull
				key >>= 8
			}
		}
		for c := range typs {
			appendBits(vecs[c], widths[c], vals[c], isNulls[c])
		}
	}
	return vecs
}

// DecodeFixedKey unpacks one key into values.
func DecodeFixedKey(key uint64, typs []types.Type) []types.Value {
	vecs := DecodeFixedKeys([]uint64{key}, typs)
	vals := make([]types.Value, len(vecs))
	for i, vec := range vecs {
		vals[i] = vec.GetValue(0)
	}
	return vals
}

// SerializedKeyBuilder writes each row as, per column, a null flag byte for
// nullable columns, then the fixed width bytes or a uvarint length followed
// by the string bytes. A null value writes the flag only.
type SerializedKeyBuilder struct {
	typs []types.Type
}

func NewSerializedKeyBuilder(typs []types.Type) *SerializedKeyBuilder {
	return &SerializedKeyBuilder{typs: typs}
}

// BuildKeys writes the keys of rows [start, start+n) of vecs to keys[:n],
// reusing their buffers.
func (b *SerializedKeyBuilder) BuildKeys(vecs []*vector.Vector, start, n int, keys [][]byte) {
	keys = keys[:n]
	for i := range keys {
		keys[i] = keys[i][:0]
	}
	for c, vec := range vecs {
		typ := b.typs[c]
		isAny := vec.GetType().Oid == types.T_any
		for i := range keys {
			row := start + i
			isNull := isAny || vec.IsNull(row)
			if typ.Nullable {
				if isNull {
					keys[i] = append(keys[i], flagNull)
					continue
				}
				keys[i] = append(keys[i], flagValue)
			}
			switch {
			case isAny:
			case typ.IsVarlen():
				var data []byte
				if !isNull {
					data = vec.GetBytesAt(row)
				}
				keys[i] = binary.AppendUvarint(keys[i], uint64(len(data)))
				keys[i] = append(keys[i], data...)
			default:
				keys[i] = append(keys[i], vec.GetRawBytesAt(row)...)
			}
		}
	}
}

// DecodeSerializedKeys parses keys back into one vector per column of typs.
func DecodeSerializedKeys(keys [][]byte, typs []types.Type) ([]*vector.Vector, error) {
	vecs := newKeyVectors(typs, len(keys))
	for _, key := range keys {
		rest := key
		for c, typ := range typs {
			if typ.Nullable {
				if len(rest) == 0 {
					return nil, errCorruptedKey(key)
				}
				flag := rest[0]
				rest = rest[1:]
				if flag == flagNull {
					vecs[c].AppendNull()
					continue
				}
			}
			switch {
			case typ.Oid == types.T_any:
				vecs[c].AppendNull()
			case typ.IsVarlen():
				l, n := binary.Uvarint(rest)
				if n <= 0 || uint64(len(rest)-n) < l {
					return nil, errCorruptedKey(key)
				}
				rest = rest[n:]
				vector.AppendBytes(vecs[c], rest[:l], false)
				rest = rest[l:]
			default:
				w := typ.TypeSize()
				if len(rest) < w {
					return nil, errCorruptedKey(key)
				}
				appendBits(vecs[c], w, readBits(rest[:w]), false)
				rest = rest[w:]
			}
		}
		if len(rest) != 0 {
			return nil, errCorruptedKey(key)
		}
	}
	return vecs, nil
}

// DecodeSerializedKey parses one key into values.
func DecodeSerializedKey(key []byte, typs []types.Type) ([]types.Value, error) {
	vecs, err := DecodeSerializedKeys([][]byte{key}, typs)
	if err != nil {
		return nil, err
	}
	vals := make([]types.Value, len(vecs))
	for i, vec := range vecs {
		vals[i] = vec.GetValue(0)
	}
	return vals, nil
}

func errCorruptedKey(key []byte) error {
	return moerr.NewInternalErrorNoCtx("corrupted serialized group key %x", key)
}

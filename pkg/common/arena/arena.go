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

// Package arena is a bump allocator for byte data whose lifetime ends all at
// once, such as serialized group keys and accumulator scratch space.
package arena

const DefaultChunkSize = 64 << 10

// Ref addresses bytes carved from an Arena. It stays valid until Free.
type Ref struct {
	Chunk uint32
	Off   uint32
	Len   uint32
}

type Arena struct {
	chunkSize int
	chunks    [][]byte
	// bytes handed out, not counting chunk tails left unused
	used int
	// bytes reserved by chunks
	reserved int
}

func New(chunkSize int) *Arena {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Arena{chunkSize: chunkSize}
}

// Alloc carves n bytes. The returned memory is zeroed.
func (a *Arena) Alloc(n int) Ref {
	if n == 0 {
		return Ref{}
	}
	last := len(a.chunks) - 1
	if last < 0 || cap(a.chunks[last])-len(a.chunks[last]) < n {
		size := a.chunkSize
		if n > size {
			size = n
		}
		a.chunks = append(a.chunks, make([]byte, 0, size))
		a.reserved += size
		last++
	}
	chunk := a.chunks[last]
	off := len(chunk)
	a.chunks[last] = chunk[:off+n]
	a.used += n
	return Ref{Chunk: uint32(last), Off: uint32(off), Len: uint32(n)}
}

// Copy stores a copy of data and returns its reference.
func (a *Arena) Copy(data []byte) Ref {
	ref := a.Alloc(len(data))
	copy(a.Bytes(ref), data)
	return ref
}

// Bytes returns the memory behind ref. Callers may write into it.
func (a *Arena) Bytes(ref Ref) []byte {
	if ref.Len == 0 {
		return nil
	}
	return a.chunks[ref.Chunk][ref.Off : ref.Off+ref.Len : ref.Off+ref.Len]
}

func (a *Arena) Size() int {
	return a.used
}

func (a *Arena) Reserved() int {
	return a.reserved
}

func (a *Arena) Chunks() int {
	return len(a.chunks)
}

// Free drops every chunk. All refs handed out before become invalid.
func (a *Arena) Free() {
	a.chunks = nil
	a.used = 0
	a.reserved = 0
}

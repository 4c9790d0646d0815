// Copyright 2021 The revm Authors
// This file is part of the revm library.
//
// The revm library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The revm library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the revm library. If not, see <http://www.gnu.org/licenses/>.

package vm

import (
	"bytes"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestMemorySetResize(t *testing.T) {
	mem := NewMemory()
	require.Equal(t, 0, mem.Len())

	mem.Resize(64)
	require.Equal(t, 64, mem.Len())

	mem.Set(32, 4, []byte{0xde, 0xad, 0xbe, 0xef})
	got := mem.GetCopy(32, 4)
	require.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, got)
}

func TestMemorySet32(t *testing.T) {
	mem := NewMemory()
	mem.Resize(64)

	val := new(uint256.Int).SetUint64(0x0102)
	mem.Set32(0, val)

	want := make([]byte, 32)
	want[30] = 0x01
	want[31] = 0x02
	require.Equal(t, want, mem.GetCopy(0, 32))
}

// Set32 must zero the full word, even when a smaller value is written over
// previous contents.
func TestMemorySet32ClearsWord(t *testing.T) {
	mem := NewMemory()
	mem.Resize(32)
	mem.Set(0, 32, bytes.Repeat([]byte{0xff}, 32))

	mem.Set32(0, new(uint256.Int).SetUint64(1))
	got := mem.GetCopy(0, 32)
	for i := 0; i < 31; i++ {
		require.Equal(t, byte(0), got[i])
	}
	require.Equal(t, byte(1), got[31])
}

func TestMemoryGetCopyIsolated(t *testing.T) {
	mem := NewMemory()
	mem.Resize(32)
	mem.Set(0, 2, []byte{1, 2})

	cpy := mem.GetCopy(0, 2)
	cpy[0] = 0xff
	require.Equal(t, byte(1), mem.GetPtr(0, 1)[0])
}

func TestMemorySetUnresizedPanics(t *testing.T) {
	mem := NewMemory()
	require.Panics(t, func() {
		mem.Set(0, 4, []byte{1, 2, 3, 4})
	})
}

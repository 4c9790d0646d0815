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
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestStackPushPop(t *testing.T) {
	st := newstack()
	defer returnStack(st)

	for i := uint64(1); i <= 16; i++ {
		st.push(new(uint256.Int).SetUint64(i))
	}
	require.Equal(t, 16, st.len())

	for i := uint64(16); i >= 1; i-- {
		v := st.pop()
		require.Equal(t, i, v.Uint64())
	}
	require.Equal(t, 0, st.len())
}

func TestStackDup(t *testing.T) {
	st := newstack()
	defer returnStack(st)

	st.push(new(uint256.Int).SetUint64(42))
	st.push(new(uint256.Int).SetUint64(7))

	st.dup(2) // duplicates the 2nd item from the top
	require.Equal(t, 3, st.len())
	require.Equal(t, uint64(42), st.peek().Uint64())
}

func TestStackSwap(t *testing.T) {
	st := newstack()
	defer returnStack(st)

	st.push(new(uint256.Int).SetUint64(1))
	st.push(new(uint256.Int).SetUint64(2))
	st.push(new(uint256.Int).SetUint64(3))

	st.swap(3)
	require.Equal(t, uint64(1), st.Back(0).Uint64())
	require.Equal(t, uint64(3), st.Back(2).Uint64())
}

func TestStackBackIndexing(t *testing.T) {
	st := newstack()
	defer returnStack(st)

	for i := uint64(0); i < 4; i++ {
		st.push(new(uint256.Int).SetUint64(i))
	}
	// Back(0) is the top of the stack
	for i := uint64(0); i < 4; i++ {
		require.Equal(t, 3-i, st.Back(int(i)).Uint64())
	}
}

func TestReturnStackReset(t *testing.T) {
	st := newstack()
	st.push(new(uint256.Int).SetUint64(1))
	returnStack(st)

	st2 := newstack()
	defer returnStack(st2)
	require.Equal(t, 0, st2.len())
}

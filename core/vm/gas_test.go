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

func TestCallGasEIP150(t *testing.T) {
	tests := []struct {
		available uint64
		base      uint64
		requested uint64
		want      uint64
	}{
		// All-but-one-64th keeps a floor of available/64 in the caller.
		{6400, 0, 6400, 6300},
		{6400, 0, 1000, 1000},
		{6400, 400, 6400, 5907},
		{64, 0, 64, 63},
		{0, 0, 100, 0},
	}
	for i, tt := range tests {
		gas, err := callGas(true, tt.available, tt.base, new(uint256.Int).SetUint64(tt.requested))
		require.NoError(t, err, "test %d", i)
		require.Equal(t, tt.want, gas, "test %d", i)
	}
}

func TestCallGasPreEIP150(t *testing.T) {
	// Before the repricing fork the requested amount is taken at face value.
	gas, err := callGas(false, 100, 0, new(uint256.Int).SetUint64(1000))
	require.NoError(t, err)
	require.Equal(t, uint64(1000), gas)

	// A request over 64 bits overflows.
	over := new(uint256.Int).Lsh(uint256.NewInt().SetOne(), 64)
	_, err = callGas(false, 100, 0, over)
	require.Equal(t, ErrGasUintOverflow, err)
}

func TestCallGasEIP150LargeRequest(t *testing.T) {
	// With EIP-150 active an oversized request silently caps at the 63/64
	// allowance instead of erroring.
	over := new(uint256.Int).Lsh(uint256.NewInt().SetOne(), 64)
	gas, err := callGas(true, 640, 0, over)
	require.NoError(t, err)
	require.Equal(t, uint64(630), gas)
}

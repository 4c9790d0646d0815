// Copyright 2020 The revm Authors
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
	"math/big"
	"testing"

	"github.com/Wodann/revm/common"
	"github.com/Wodann/revm/crypto"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestUseGas(t *testing.T) {
	c := NewContract(AccountRef{}, AccountRef{}, new(big.Int), 100)

	require.True(t, c.UseGas(40))
	require.Equal(t, uint64(60), c.Gas)

	// Insufficient gas must leave the meter untouched.
	require.False(t, c.UseGas(61))
	require.Equal(t, uint64(60), c.Gas)

	require.True(t, c.UseGas(60))
	require.Equal(t, uint64(0), c.Gas)
}

func TestValidJumpdest(t *testing.T) {
	// 0: PUSH2 0x5b5b, 3: JUMPDEST, 4: STOP
	code := []byte{byte(PUSH2), 0x5b, 0x5b, 0x5b, 0x00}
	c := NewContract(AccountRef{}, AccountRef{}, new(big.Int), 0)
	c.SetCallCode(nil, crypto.Keccak256Hash(code), code)

	for i, tt := range []struct {
		dest  uint64
		valid bool
	}{
		{0, false}, // PUSH2 itself
		{1, false}, // 0x5b inside push data
		{2, false}, // 0x5b inside push data
		{3, true},  // real JUMPDEST
		{4, false}, // STOP
		{5, false}, // past end of code
	} {
		got := c.validJumpdest(new(uint256.Int).SetUint64(tt.dest))
		if got != tt.valid {
			t.Errorf("case %d: dest %d: got %v, want %v", i, tt.dest, got, tt.valid)
		}
	}

	// Destinations beyond 63 bits never validate.
	over := new(uint256.Int).Lsh(uint256.NewInt().SetOne(), 64)
	require.False(t, c.validJumpdest(over))
}

func TestJumpdestAnalysisReuse(t *testing.T) {
	code := []byte{byte(JUMPDEST), 0x00}
	hash := crypto.Keccak256Hash(code)

	parent := NewContract(AccountRef{}, AccountRef{}, new(big.Int), 0)
	parent.SetCallCode(nil, hash, code)
	require.True(t, parent.validJumpdest(new(uint256.Int)))

	// A child contract created from the parent shares the analysis map.
	child := NewContract(parent, AccountRef{}, new(big.Int), 0)
	if _, ok := child.jumpdests[hash]; !ok {
		t.Fatal("parent analysis not visible to child")
	}
}

func TestAsDelegate(t *testing.T) {
	caller := common.BytesToAddress([]byte{0xaa})
	value := big.NewInt(7)

	parent := NewContract(AccountRef(caller), AccountRef{}, value, 0)
	inner := NewContract(parent, AccountRef(common.BytesToAddress([]byte{0xbb})), new(big.Int), 0).AsDelegate()

	require.Equal(t, caller, inner.Caller())
	require.Equal(t, value, inner.Value())
}

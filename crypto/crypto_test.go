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

package crypto

import (
	"bytes"
	"testing"

	"github.com/Wodann/revm/common"
)

func TestKeccak256Hash(t *testing.T) {
	msg := []byte("abc")
	exp := common.HexToHash("4e03657aea45a94fc7d47ba826c8d667c0d1e6e33a64a036ec44f58fa12d6c45")
	if h := Keccak256Hash(msg); h != exp {
		t.Errorf("hash mismatch: have %x, want %x", h, exp)
	}
	// The empty hash is a consensus constant.
	empty := common.HexToHash("c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470")
	if h := Keccak256Hash(nil); h != empty {
		t.Errorf("empty hash mismatch: have %x, want %x", h, empty)
	}
}

func TestCreateAddress(t *testing.T) {
	caller := common.HexToAddress("0x970e8128ab834e8eac17ab8e3812f010678cf791")

	tests := []struct {
		nonce uint64
		want  common.Address
	}{
		{0, common.HexToAddress("0x333c3310824b7c685133f2bedb2ca4b8b4df633d")},
		{1, common.HexToAddress("0x8bda78331c916a08481428e4b07c96d3e916d165")},
		{2, common.HexToAddress("0xc9ddedf451bc62ce88bf9292afb13df35b670699")},
	}
	for i, tt := range tests {
		if got := CreateAddress(caller, tt.nonce); got != tt.want {
			t.Errorf("test %d: have %x, want %x", i, got, tt.want)
		}
	}
}

// Test vectors from EIP-1014.
func TestCreateAddress2(t *testing.T) {
	tests := []struct {
		origin   string
		salt     string
		code     string
		expected string
	}{
		{"0x0000000000000000000000000000000000000000", "0x0000000000000000000000000000000000000000000000000000000000000000", "0x00", "0x4D1A2e2bB4F88F0250f26Ffff098B0b30B26BF38"},
		{"0xdeadbeef00000000000000000000000000000000", "0x0000000000000000000000000000000000000000000000000000000000000000", "0x00", "0xB928f69Bb1D91Cd65274e3c79d8986362984fDA3"},
		{"0xdeadbeef00000000000000000000000000000000", "0x000000000000000000000000feed000000000000000000000000000000000000", "0x00", "0xD04116cDd17beBE565EB2422F2497E06cC1C9833"},
		{"0x0000000000000000000000000000000000000000", "0x0000000000000000000000000000000000000000000000000000000000000000", "0xdeadbeef", "0x70f2b2914A2a4b783FaEFb75f459A580616Fcb5e"},
		{"0x00000000000000000000000000000000deadbeef", "0x00000000000000000000000000000000000000000000000000000000cafebabe", "0xdeadbeef", "0x60f3f640a8508fC6a86d45DF051962668E1e8AC7"},
		{"0x00000000000000000000000000000000deadbeef", "0x00000000000000000000000000000000000000000000000000000000cafebabe", "0xdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef", "0x1d8bfDC5D46DC4f61D6b6115972536eBE6A8854C"},
		{"0x0000000000000000000000000000000000000000", "0x0000000000000000000000000000000000000000000000000000000000000000", "0x", "0xE33C0C7F7df4809055C3ebA6c09CFe4BaF1BD9e0"},
	}
	for i, tt := range tests {
		origin := common.HexToAddress(tt.origin)
		salt := common.HexToHash(tt.salt)
		code := common.FromHex(tt.code)
		codeHash := Keccak256(code)
		address := CreateAddress2(origin, salt, codeHash)

		expected := common.HexToAddress(tt.expected)
		if expected != address {
			t.Errorf("test %d: expected %s, got %s", i, expected.Hex(), address.Hex())
		}
	}
}

func TestKeccak256MatchesState(t *testing.T) {
	d := NewKeccakState()
	d.Write([]byte("abc"))
	var out [32]byte
	d.Read(out[:])
	if !bytes.Equal(out[:], Keccak256([]byte("abc"))) {
		t.Error("KeccakState read mismatch with Keccak256")
	}
}

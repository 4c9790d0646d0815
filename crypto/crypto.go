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

// Package crypto implements the Keccak-256 hashing and contract address
// derivation required by the interpreter core.
package crypto

import (
	"encoding/binary"
	"hash"

	"github.com/Wodann/revm/common"
	"golang.org/x/crypto/sha3"
)

// KeccakState wraps sha3.state. In addition to the usual hash methods, it
// also supports Read to get a variable amount of data from the hash state.
// Read is faster than Sum because it doesn't copy the internal state, but
// also modifies the internal state.
type KeccakState interface {
	hash.Hash
	Read([]byte) (int, error)
}

// NewKeccakState creates a new KeccakState.
func NewKeccakState() KeccakState {
	return sha3.NewLegacyKeccak256().(KeccakState)
}

// Keccak256 calculates and returns the Keccak256 hash of the input data.
func Keccak256(data ...[]byte) []byte {
	b := make([]byte, 32)
	d := NewKeccakState()
	for _, b := range data {
		d.Write(b)
	}
	d.Read(b)
	return b
}

// Keccak256Hash calculates and returns the Keccak256 hash of the input data,
// converting it to an internal Hash data structure.
func Keccak256Hash(data ...[]byte) (h common.Hash) {
	d := NewKeccakState()
	for _, b := range data {
		d.Write(b)
	}
	d.Read(h[:])
	return h
}

// CreateAddress creates an address given the creating account's address and
// its sequence counter (nonce). The derivation is the Keccak256 hash of the
// RLP encoding of [address, nonce], truncated to the rightmost 20 bytes.
func CreateAddress(b common.Address, nonce uint64) common.Address {
	data := rlpAddressNonce(b, nonce)
	return common.BytesToAddress(Keccak256(data)[12:])
}

// CreateAddress2 creates an address given the creating account's address, a
// salt and the hash of the contract's initialisation code, per EIP-1014.
func CreateAddress2(b common.Address, salt [32]byte, inithash []byte) common.Address {
	return common.BytesToAddress(Keccak256([]byte{0xff}, b.Bytes(), salt[:], inithash)[12:])
}

// rlpAddressNonce encodes [address, nonce] as an RLP list. The payload of
// the list is at most 30 bytes, so the short-list header form always applies.
func rlpAddressNonce(addr common.Address, nonce uint64) []byte {
	nonceBytes := encodeNonce(nonce)
	payload := make([]byte, 0, 1+common.AddressLength+len(nonceBytes))
	payload = append(payload, 0x80+common.AddressLength)
	payload = append(payload, addr.Bytes()...)
	payload = append(payload, nonceBytes...)

	out := make([]byte, 0, 1+len(payload))
	out = append(out, 0xc0+byte(len(payload)))
	return append(out, payload...)
}

// encodeNonce RLP-encodes a uint64 as a canonical (minimal big-endian) item.
func encodeNonce(nonce uint64) []byte {
	switch {
	case nonce == 0:
		return []byte{0x80}
	case nonce < 0x80:
		return []byte{byte(nonce)}
	default:
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], nonce)
		i := 0
		for buf[i] == 0 {
			i++
		}
		out := make([]byte, 0, 9-i)
		out = append(out, 0x80+byte(8-i))
		return append(out, buf[i:]...)
	}
}

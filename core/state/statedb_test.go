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

package state

import (
	"math/big"
	"testing"

	"github.com/Wodann/revm/common"
	"github.com/Wodann/revm/core/types"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRevert(t *testing.T) {
	s := New()
	addr := common.BytesToAddress([]byte{0x01})

	s.CreateAccount(addr)
	s.SetBalance(addr, big.NewInt(100))
	s.SetState(addr, common.Hash{}, common.BytesToHash([]byte{1}))

	id := s.Snapshot()

	s.SetBalance(addr, big.NewInt(5))
	s.SetState(addr, common.Hash{}, common.BytesToHash([]byte{2}))
	s.AddRefund(1000)
	s.AddLog(&types.Log{Address: addr})

	s.RevertToSnapshot(id)

	require.Equal(t, int64(100), s.GetBalance(addr).Int64())
	require.Equal(t, common.BytesToHash([]byte{1}), s.GetState(addr, common.Hash{}))
	require.Equal(t, uint64(0), s.GetRefund())
	require.Len(t, s.Logs(), 0)
}

func TestNestedSnapshots(t *testing.T) {
	s := New()
	addr := common.BytesToAddress([]byte{0x02})
	s.CreateAccount(addr)

	outer := s.Snapshot()
	s.SetNonce(addr, 1)
	inner := s.Snapshot()
	s.SetNonce(addr, 2)

	s.RevertToSnapshot(inner)
	require.Equal(t, uint64(1), s.GetNonce(addr))

	s.RevertToSnapshot(outer)
	require.Equal(t, uint64(0), s.GetNonce(addr))
}

func TestCommittedStateSurvivesDirtyWrites(t *testing.T) {
	s := New()
	addr := common.BytesToAddress([]byte{0x03})
	key := common.BytesToHash([]byte{0xaa})

	s.SetCommittedState(addr, key, common.BytesToHash([]byte{1}))
	s.SetState(addr, key, common.BytesToHash([]byte{2}))

	require.Equal(t, common.BytesToHash([]byte{1}), s.GetCommittedState(addr, key))
	require.Equal(t, common.BytesToHash([]byte{2}), s.GetState(addr, key))
}

func TestFinalise(t *testing.T) {
	s := New()
	addr := common.BytesToAddress([]byte{0x04})
	key := common.BytesToHash([]byte{0xbb})

	s.SetState(addr, key, common.BytesToHash([]byte{7}))
	s.AddRefund(42)
	s.Finalise()

	require.Equal(t, common.BytesToHash([]byte{7}), s.GetCommittedState(addr, key))
	require.Equal(t, uint64(0), s.GetRefund())
}

func TestSuicide(t *testing.T) {
	s := New()
	addr := common.BytesToAddress([]byte{0x05})
	s.CreateAccount(addr)
	s.SetBalance(addr, big.NewInt(10))

	require.True(t, s.Suicide(addr))
	require.True(t, s.HasSuicided(addr))
	require.Equal(t, int64(0), s.GetBalance(addr).Int64())
	// The account lingers until Finalise.
	require.True(t, s.Exist(addr))

	s.Finalise()
	require.False(t, s.Exist(addr))
}

func TestSubRefundUnderflowPanics(t *testing.T) {
	s := New()
	s.AddRefund(10)
	require.Panics(t, func() { s.SubRefund(11) })
}

func TestAccessList(t *testing.T) {
	s := New()
	addr := common.BytesToAddress([]byte{0x06})
	slot := common.BytesToHash([]byte{0x01})

	require.False(t, s.AddressInAccessList(addr))

	s.AddAddressToAccessList(addr)
	require.True(t, s.AddressInAccessList(addr))

	addrOk, slotOk := s.SlotInAccessList(addr, slot)
	require.True(t, addrOk)
	require.False(t, slotOk)

	s.AddSlotToAccessList(addr, slot)
	_, slotOk = s.SlotInAccessList(addr, slot)
	require.True(t, slotOk)
}

// Access list membership is snapshot-scoped like any other state.
func TestAccessListRevert(t *testing.T) {
	s := New()
	addr := common.BytesToAddress([]byte{0x07})

	id := s.Snapshot()
	s.AddAddressToAccessList(addr)
	require.True(t, s.AddressInAccessList(addr))

	s.RevertToSnapshot(id)
	require.False(t, s.AddressInAccessList(addr))
}

func TestEmpty(t *testing.T) {
	s := New()
	addr := common.BytesToAddress([]byte{0x08})

	require.True(t, s.Empty(addr))
	s.CreateAccount(addr)
	require.True(t, s.Empty(addr), "fresh account is empty per EIP-161")

	s.SetNonce(addr, 1)
	require.False(t, s.Empty(addr))
}

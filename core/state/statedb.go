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

// Package state implements an in-memory account store backing the EVM.
package state

import (
	"math/big"

	"github.com/Wodann/revm/common"
	"github.com/Wodann/revm/core/types"
	"github.com/Wodann/revm/crypto"
)

var emptyCodeHash = crypto.Keccak256Hash(nil)

// stateObject is the in-memory representation of an account.
type stateObject struct {
	balance  *big.Int
	nonce    uint64
	code     []byte
	codeHash common.Hash

	// storage holds the dirty state of the current transaction, committed
	// holds the values as of the start of the transaction.
	storage   map[common.Hash]common.Hash
	committed map[common.Hash]common.Hash

	suicided bool
}

func newStateObject() *stateObject {
	return &stateObject{
		balance:   new(big.Int),
		codeHash:  emptyCodeHash,
		storage:   make(map[common.Hash]common.Hash),
		committed: make(map[common.Hash]common.Hash),
	}
}

func (so *stateObject) copy() *stateObject {
	cpy := &stateObject{
		balance:   new(big.Int).Set(so.balance),
		nonce:     so.nonce,
		code:      so.code,
		codeHash:  so.codeHash,
		storage:   make(map[common.Hash]common.Hash, len(so.storage)),
		committed: make(map[common.Hash]common.Hash, len(so.committed)),
		suicided:  so.suicided,
	}
	for k, v := range so.storage {
		cpy.storage[k] = v
	}
	for k, v := range so.committed {
		cpy.committed[k] = v
	}
	return cpy
}

func (so *stateObject) empty() bool {
	return so.nonce == 0 && so.balance.Sign() == 0 && so.codeHash == emptyCodeHash
}

// StateDB is an in-memory implementation of the vm.StateDB host interface.
// It keeps full journal-free snapshots: Snapshot copies the world, and
// RevertToSnapshot restores it wholesale. That is a good fit for a
// standalone interpreter where state sets are small.
//
// A StateDB is not safe for concurrent use.
type StateDB struct {
	objects map[common.Address]*stateObject

	refund uint64

	logs      []*types.Log
	preimages map[common.Hash][]byte

	// Per-transaction access list (EIP-2929)
	accessList *accessList

	snapshots  []*snapshot
	nextRevid  int
}

type snapshot struct {
	id         int
	objects    map[common.Address]*stateObject
	refund     uint64
	logLen     int
	accessList *accessList
}

// New creates an empty state database.
func New() *StateDB {
	return &StateDB{
		objects:    make(map[common.Address]*stateObject),
		preimages:  make(map[common.Hash][]byte),
		accessList: newAccessList(),
	}
}

func (s *StateDB) getStateObject(addr common.Address) *stateObject {
	return s.objects[addr]
}

func (s *StateDB) getOrNewStateObject(addr common.Address) *stateObject {
	if so := s.objects[addr]; so != nil {
		return so
	}
	so := newStateObject()
	s.objects[addr] = so
	return so
}

// CreateAccount explicitly creates a state object. If a state object with the
// address already exists the balance is carried over to the new account.
func (s *StateDB) CreateAccount(addr common.Address) {
	prev := s.objects[addr]
	so := newStateObject()
	if prev != nil {
		so.balance = new(big.Int).Set(prev.balance)
	}
	s.objects[addr] = so
}

func (s *StateDB) SubBalance(addr common.Address, amount *big.Int) {
	so := s.getOrNewStateObject(addr)
	so.balance = new(big.Int).Sub(so.balance, amount)
}

func (s *StateDB) AddBalance(addr common.Address, amount *big.Int) {
	so := s.getOrNewStateObject(addr)
	so.balance = new(big.Int).Add(so.balance, amount)
}

func (s *StateDB) GetBalance(addr common.Address) *big.Int {
	if so := s.getStateObject(addr); so != nil {
		return so.balance
	}
	return new(big.Int)
}

func (s *StateDB) SetBalance(addr common.Address, amount *big.Int) {
	s.getOrNewStateObject(addr).balance = new(big.Int).Set(amount)
}

func (s *StateDB) GetNonce(addr common.Address) uint64 {
	if so := s.getStateObject(addr); so != nil {
		return so.nonce
	}
	return 0
}

func (s *StateDB) SetNonce(addr common.Address, nonce uint64) {
	s.getOrNewStateObject(addr).nonce = nonce
}

func (s *StateDB) GetCodeHash(addr common.Address) common.Hash {
	if so := s.getStateObject(addr); so != nil {
		return so.codeHash
	}
	return common.Hash{}
}

func (s *StateDB) GetCode(addr common.Address) []byte {
	if so := s.getStateObject(addr); so != nil {
		return so.code
	}
	return nil
}

func (s *StateDB) SetCode(addr common.Address, code []byte) {
	so := s.getOrNewStateObject(addr)
	so.code = code
	so.codeHash = crypto.Keccak256Hash(code)
}

func (s *StateDB) GetCodeSize(addr common.Address) int {
	return len(s.GetCode(addr))
}

func (s *StateDB) AddRefund(gas uint64) {
	s.refund += gas
}

// SubRefund removes gas from the refund counter.
// This method will panic if the refund counter goes below zero
func (s *StateDB) SubRefund(gas uint64) {
	if gas > s.refund {
		panic("refund counter below zero")
	}
	s.refund -= gas
}

func (s *StateDB) GetRefund() uint64 {
	return s.refund
}

// GetCommittedState retrieves the value of a slot as of the beginning of the
// current transaction.
func (s *StateDB) GetCommittedState(addr common.Address, key common.Hash) common.Hash {
	if so := s.getStateObject(addr); so != nil {
		return so.committed[key]
	}
	return common.Hash{}
}

func (s *StateDB) GetState(addr common.Address, key common.Hash) common.Hash {
	if so := s.getStateObject(addr); so != nil {
		if value, dirty := so.storage[key]; dirty {
			return value
		}
		return so.committed[key]
	}
	return common.Hash{}
}

func (s *StateDB) SetState(addr common.Address, key, value common.Hash) {
	so := s.getOrNewStateObject(addr)
	so.storage[key] = value
}

// SetCommittedState writes a slot directly into the committed layer. It is
// meant for setting up test and simulation fixtures.
func (s *StateDB) SetCommittedState(addr common.Address, key, value common.Hash) {
	so := s.getOrNewStateObject(addr)
	so.committed[key] = value
}

// Suicide marks the given account as suicided.
// This clears the account balance.
//
// The account's state object is still available until the state is committed,
// getStateObject will return a non-nil account after Suicide.
func (s *StateDB) Suicide(addr common.Address) bool {
	so := s.getStateObject(addr)
	if so == nil {
		return false
	}
	so.suicided = true
	so.balance = new(big.Int)
	return true
}

func (s *StateDB) HasSuicided(addr common.Address) bool {
	if so := s.getStateObject(addr); so != nil {
		return so.suicided
	}
	return false
}

func (s *StateDB) Exist(addr common.Address) bool {
	return s.getStateObject(addr) != nil
}

func (s *StateDB) Empty(addr common.Address) bool {
	so := s.getStateObject(addr)
	return so == nil || so.empty()
}

func (s *StateDB) AddressInAccessList(addr common.Address) bool {
	return s.accessList.ContainsAddress(addr)
}

func (s *StateDB) SlotInAccessList(addr common.Address, slot common.Hash) (bool, bool) {
	return s.accessList.Contains(addr, slot)
}

func (s *StateDB) AddAddressToAccessList(addr common.Address) {
	s.accessList.AddAddress(addr)
}

func (s *StateDB) AddSlotToAccessList(addr common.Address, slot common.Hash) {
	s.accessList.AddSlot(addr, slot)
}

// PrepareAccessList handles the preparatory steps for executing a state
// transition with regards to EIP-2929:
//
// - Add sender to access list
// - Add destination to access list (if present)
// - Add precompiles to access list
//
// This method should only be called if Berlin is applicable at the current
// number.
func (s *StateDB) PrepareAccessList(sender common.Address, dst *common.Address, precompiles []common.Address) {
	s.AddAddressToAccessList(sender)
	if dst != nil {
		s.AddAddressToAccessList(*dst)
	}
	for _, addr := range precompiles {
		s.AddAddressToAccessList(addr)
	}
}

func (s *StateDB) AddLog(log *types.Log) {
	s.logs = append(s.logs, log)
}

// Logs returns the logs emitted so far.
func (s *StateDB) Logs() []*types.Log {
	return s.logs
}

func (s *StateDB) AddPreimage(hash common.Hash, preimage []byte) {
	if _, ok := s.preimages[hash]; !ok {
		s.preimages[hash] = common.CopyBytes(preimage)
	}
}

// Preimages returns the recorded SHA3 preimages.
func (s *StateDB) Preimages() map[common.Hash][]byte {
	return s.preimages
}

// Snapshot returns an identifier for the current revision of the state.
func (s *StateDB) Snapshot() int {
	id := s.nextRevid
	s.nextRevid++

	objects := make(map[common.Address]*stateObject, len(s.objects))
	for addr, so := range s.objects {
		objects[addr] = so.copy()
	}
	s.snapshots = append(s.snapshots, &snapshot{
		id:         id,
		objects:    objects,
		refund:     s.refund,
		logLen:     len(s.logs),
		accessList: s.accessList.Copy(),
	})
	return id
}

// RevertToSnapshot reverts all state changes made since the given revision.
func (s *StateDB) RevertToSnapshot(revid int) {
	// Find the snapshot in the stack of valid snapshots.
	idx := -1
	for i, snap := range s.snapshots {
		if snap.id == revid {
			idx = i
			break
		}
	}
	if idx == -1 {
		panic("revision id cannot be reverted")
	}
	snap := s.snapshots[idx]

	s.objects = snap.objects
	s.refund = snap.refund
	s.logs = s.logs[:snap.logLen]
	s.accessList = snap.accessList
	s.snapshots = s.snapshots[:idx]
}

// Finalise clears per-transaction bookkeeping: dirty storage is merged into
// the committed layer, suicided accounts are removed and the refund counter,
// logs and access list are reset.
func (s *StateDB) Finalise() {
	for addr, so := range s.objects {
		if so.suicided {
			delete(s.objects, addr)
			continue
		}
		for k, v := range so.storage {
			if v == (common.Hash{}) {
				delete(so.committed, k)
			} else {
				so.committed[k] = v
			}
		}
		so.storage = make(map[common.Hash]common.Hash)
	}
	s.refund = 0
	s.logs = nil
	s.accessList = newAccessList()
	s.snapshots = nil
}

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

package runtime

import (
	"math/big"
	"strings"
	"testing"

	"github.com/Wodann/revm/common"
	"github.com/Wodann/revm/core/state"
	"github.com/Wodann/revm/core/vm"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := new(Config)
	setDefaults(cfg)

	if cfg.Difficulty == nil {
		t.Error("expected difficulty to be non nil")
	}
	if cfg.Time == nil {
		t.Error("expected time to be non nil")
	}
	if cfg.GasLimit == 0 {
		t.Error("didn't expect gaslimit to be zero")
	}
	if cfg.GasPrice == nil {
		t.Error("expected time to be non nil")
	}
	if cfg.Value == nil {
		t.Error("expected time to be non nil")
	}
	if cfg.GetHashFn == nil {
		t.Error("expected time to be non nil")
	}
	if cfg.BlockNumber == nil {
		t.Error("expected block number to be non nil")
	}
	if cfg.BaseFee == nil {
		t.Error("expected base fee to be non nil under london rules")
	}
}

func TestEVM(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("crashed with: %v", r)
		}
	}()

	Execute([]byte{
		byte(vm.DIFFICULTY),
		byte(vm.TIMESTAMP),
		byte(vm.GASLIMIT),
		byte(vm.PUSH1),
		byte(vm.ORIGIN),
		byte(vm.BLOCKHASH),
		byte(vm.COINBASE),
	}, nil, nil)
}

// Adds 1 and 2, stores the sum in memory and returns the 32-byte word.
func TestExecuteAddReturn(t *testing.T) {
	code := []byte{
		byte(vm.PUSH1), 0x01,
		byte(vm.PUSH1), 0x02,
		byte(vm.ADD),
		byte(vm.PUSH1), 0x00,
		byte(vm.MSTORE),
		byte(vm.PUSH1), 0x20,
		byte(vm.PUSH1), 0x00,
		byte(vm.RETURN),
	}
	ret, _, err := Execute(code, nil, nil)
	require.NoError(t, err)
	require.Len(t, ret, 32)

	want := new(big.Int).SetUint64(3)
	if got := new(big.Int).SetBytes(ret); got.Cmp(want) != 0 {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestCallGasAccounting(t *testing.T) {
	statedb := state.New()
	address := common.HexToAddress("0x0a")
	statedb.CreateAccount(address)
	statedb.SetCode(address, []byte{
		byte(vm.PUSH1), 0x01,
		byte(vm.PUSH1), 0x02,
		byte(vm.ADD),
		byte(vm.PUSH1), 0x00,
		byte(vm.MSTORE),
		byte(vm.PUSH1), 0x20,
		byte(vm.PUSH1), 0x00,
		byte(vm.RETURN),
	})

	cfg := &Config{State: statedb, GasLimit: 100000}
	ret, leftOver, err := Call(address, nil, cfg)
	require.NoError(t, err)
	require.Equal(t, byte(3), ret[31])

	// 5 pushes (3 each), ADD (3), MSTORE (3) plus one word of memory
	// expansion (3), RETURN (0).
	require.Equal(t, uint64(24), cfg.GasLimit-leftOver)
}

// A cleared storage slot earns a refund, capped at a fifth of the gas used
// under London rules.
func TestCallRefundSettling(t *testing.T) {
	statedb := state.New()
	address := common.HexToAddress("0x0b")
	statedb.CreateAccount(address)
	// PUSH1 00 PUSH1 00 SSTORE: clears slot 0
	statedb.SetCode(address, []byte{byte(vm.PUSH1), 0x00, byte(vm.PUSH1), 0x00, byte(vm.SSTORE)})
	statedb.SetCommittedState(address, common.Hash{}, common.BytesToHash([]byte{1}))

	cfg := &Config{State: statedb, GasLimit: 100000}
	_, leftOver, err := Call(address, nil, cfg)
	require.NoError(t, err)

	// Execution costs 2x PUSH1 (3) plus a cold SSTORE clear (2100 + 2900).
	// The 4800 clearing refund is capped at used/5 = 1001.
	used := cfg.GasLimit - leftOver
	require.Equal(t, uint64(5006-1001), used)
}

func TestMemoryLimit(t *testing.T) {
	code := []byte{
		byte(vm.PUSH1), 0x01,
		byte(vm.PUSH1), 0x40,
		byte(vm.MSTORE),
	}
	cfg := &Config{
		EVMConfig: vm.Config{MemoryLimit: 32},
	}
	setDefaults(cfg)
	_, _, err := Execute(code, nil, cfg)
	require.Equal(t, vm.ErrMaxMemoryReached, err)
}

func TestCreateDeploy(t *testing.T) {
	// Init code returning a two-byte body.
	initcode := []byte{
		byte(vm.PUSH2), 0x60, 0x01,
		byte(vm.PUSH1), 0x00,
		byte(vm.MSTORE),
		byte(vm.PUSH1), 0x02,
		byte(vm.PUSH1), 0x1e,
		byte(vm.RETURN),
	}
	code, address, _, err := Create(initcode, &Config{})
	require.NoError(t, err)
	require.Equal(t, []byte{0x60, 0x01}, code)
	require.NotEqual(t, common.Address{}, address)
}

func TestExecuteRevert(t *testing.T) {
	// PUSH32 <msg> PUSH1 00 MSTORE PUSH1 20 PUSH1 00 REVERT
	msg := common.RightPadBytes([]byte("revert reason"), 32)
	code := append([]byte{byte(vm.PUSH32)}, msg...)
	code = append(code,
		byte(vm.PUSH1), 0x00,
		byte(vm.MSTORE),
		byte(vm.PUSH1), 0x20,
		byte(vm.PUSH1), 0x00,
		byte(vm.REVERT),
	)
	ret, _, err := Execute(code, nil, nil)
	require.Equal(t, vm.ErrExecutionReverted, err)
	require.True(t, strings.HasPrefix(string(ret), "revert reason"))
}

func TestStructLoggerCapture(t *testing.T) {
	tracer := vm.NewStructLogger(nil)
	cfg := &Config{
		EVMConfig: vm.Config{
			Debug:  true,
			Tracer: tracer,
		},
	}
	code := []byte{byte(vm.PUSH1), 0x01, byte(vm.PUSH1), 0x02, byte(vm.ADD), byte(vm.STOP)}
	_, _, err := Execute(code, nil, cfg)
	require.NoError(t, err)

	logs := tracer.StructLogs()
	require.Len(t, logs, 4)
	require.Equal(t, vm.PUSH1, logs[0].Op)
	require.Equal(t, vm.ADD, logs[2].Op)
	// After both pushes the stack holds the two operands.
	require.Equal(t, 2, len(logs[2].Stack))
}

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
	"math/big"
	"testing"

	"github.com/Wodann/revm/common"
	"github.com/Wodann/revm/core/state"
	"github.com/Wodann/revm/crypto"
	"github.com/Wodann/revm/params"
	"github.com/stretchr/testify/require"
)

func newTestEVM(statedb StateDB, cfg Config) *EVM {
	vmctx := Context{
		CanTransfer: func(db StateDB, addr common.Address, amount *big.Int) bool {
			return db.GetBalance(addr).Cmp(amount) >= 0
		},
		Transfer: func(db StateDB, sender, recipient common.Address, amount *big.Int) {
			db.SubBalance(sender, amount)
			db.AddBalance(recipient, amount)
		},
		BlockNumber: new(big.Int),
		Time:        new(big.Int),
		Difficulty:  new(big.Int),
		GasPrice:    new(big.Int),
	}
	return NewEVM(vmctx, statedb, params.TestChainConfig, cfg)
}

func TestCallDepthLimit(t *testing.T) {
	statedb := state.New()
	addr := common.BytesToAddress([]byte{0xaa})
	statedb.CreateAccount(addr)
	statedb.SetCode(addr, []byte{byte(STOP)})

	evm := newTestEVM(statedb, Config{})
	evm.depth = int(params.CallCreateDepth) + 1

	_, gas, err := evm.Call(AccountRef(common.Address{}), addr, nil, 10000, new(big.Int))
	require.Equal(t, ErrDepth, err)
	require.Equal(t, uint64(10000), gas, "depth failure must not consume gas")

	_, _, _, err = evm.Create(AccountRef(common.Address{}), []byte{byte(STOP)}, 10000, new(big.Int))
	require.Equal(t, ErrDepth, err)
}

// A REVERT hands back the unused gas of the frame, while any other failure
// consumes everything that was forwarded.
func TestRevertErrorGasAsymmetry(t *testing.T) {
	statedb := state.New()

	reverter := common.BytesToAddress([]byte{0x11})
	statedb.CreateAccount(reverter)
	// PUSH1 00 PUSH1 00 REVERT
	statedb.SetCode(reverter, []byte{byte(PUSH1), 0x00, byte(PUSH1), 0x00, byte(REVERT)})

	faulty := common.BytesToAddress([]byte{0xab})
	statedb.CreateAccount(faulty)
	// 0xfe is the designated invalid opcode
	statedb.SetCode(faulty, []byte{0xfe})

	evm := newTestEVM(statedb, Config{})

	const supplied = uint64(100000)
	_, gas, err := evm.Call(AccountRef(common.Address{}), reverter, nil, supplied, new(big.Int))
	require.Equal(t, ErrExecutionReverted, err)
	require.Equal(t, supplied-6, gas, "revert must refund unused gas")

	_, gas, err = evm.Call(AccountRef(common.Address{}), faulty, nil, supplied, new(big.Int))
	require.Error(t, err)
	require.NotEqual(t, ErrExecutionReverted, err)
	require.Equal(t, uint64(0), gas, "a fault must consume everything")
}

// Calls to precompile addresses are intercepted before any code stored
// there could run.
func TestCallPrecompileShadowsCode(t *testing.T) {
	statedb := state.New()
	addr := common.BytesToAddress([]byte{0x02}) // sha256
	statedb.CreateAccount(addr)
	statedb.SetCode(addr, []byte{0xfe})

	evm := newTestEVM(statedb, Config{})

	const supplied = uint64(100000)
	_, gas, err := evm.Call(AccountRef(common.Address{}), addr, nil, supplied, new(big.Int))
	require.NoError(t, err, "planted code must not execute")
	require.Equal(t, supplied-params.Sha256BaseGas, gas)
}

func TestStaticCallWriteProtection(t *testing.T) {
	statedb := state.New()
	addr := common.BytesToAddress([]byte{0x01, 0x10})
	statedb.CreateAccount(addr)
	// PUSH1 01 PUSH1 00 SSTORE
	statedb.SetCode(addr, []byte{byte(PUSH1), 0x01, byte(PUSH1), 0x00, byte(SSTORE)})

	evm := newTestEVM(statedb, Config{})

	_, gas, err := evm.StaticCall(AccountRef(common.Address{}), addr, nil, 100000)
	require.Equal(t, ErrWriteProtection, err)
	require.Equal(t, uint64(0), gas)
	require.Equal(t, common.Hash{}, statedb.GetState(addr, common.Hash{}))
}

// The write barrier also covers value-bearing CALLs made inside a static
// frame.
func TestStaticCallValueTransferBlocked(t *testing.T) {
	statedb := state.New()

	inner := common.BytesToAddress([]byte{0xcc})
	statedb.CreateAccount(inner)
	statedb.SetCode(inner, []byte{byte(STOP)})

	outer := common.BytesToAddress([]byte{0x02, 0x01})
	statedb.CreateAccount(outer)
	statedb.AddBalance(outer, big.NewInt(1))
	// CALL 0x..cc with value 1:
	// PUSH1 00 (retSize) PUSH1 00 (retOffset) PUSH1 00 (inSize) PUSH1 00 (inOffset)
	// PUSH1 01 (value) PUSH1 cc (addr) PUSH2 ffff (gas) CALL
	statedb.SetCode(outer, []byte{
		byte(PUSH1), 0x00, byte(PUSH1), 0x00, byte(PUSH1), 0x00, byte(PUSH1), 0x00,
		byte(PUSH1), 0x01, byte(PUSH1), 0xcc, byte(PUSH2), 0xff, 0xff, byte(CALL),
	})

	evm := newTestEVM(statedb, Config{})

	_, _, err := evm.StaticCall(AccountRef(common.Address{}), outer, nil, 100000)
	require.Equal(t, ErrWriteProtection, err)
}

func TestInvalidJumpConsumesGas(t *testing.T) {
	statedb := state.New()
	addr := common.BytesToAddress([]byte{0xac})
	statedb.CreateAccount(addr)
	// PUSH1 01 JUMP; target 1 is a PUSH immediate, not a JUMPDEST
	statedb.SetCode(addr, []byte{byte(PUSH1), 0x01, byte(JUMP)})

	evm := newTestEVM(statedb, Config{})

	_, gas, err := evm.Call(AccountRef(common.Address{}), addr, nil, 100000, new(big.Int))
	require.Equal(t, ErrInvalidJump, err)
	require.Equal(t, uint64(0), gas)
}

func TestStackOverflow(t *testing.T) {
	statedb := state.New()
	addr := common.BytesToAddress([]byte{0xad})
	statedb.CreateAccount(addr)
	// JUMPDEST PUSH1 01 PUSH1 00 JUMP: pushes forever
	statedb.SetCode(addr, []byte{byte(JUMPDEST), byte(PUSH1), 0x01, byte(PUSH1), 0x00, byte(JUMP)})

	evm := newTestEVM(statedb, Config{})

	_, _, err := evm.Call(AccountRef(common.Address{}), addr, nil, 100000, new(big.Int))
	require.Error(t, err)
	if _, ok := err.(*ErrStackOverflow); !ok {
		t.Fatalf("expected stack overflow, got %v", err)
	}
}

// Under Berlin rules the first touch of an address is charged cold, repeat
// touches warm.
func TestEIP2929ColdWarmBalance(t *testing.T) {
	statedb := state.New()
	addr := common.BytesToAddress([]byte{0x05})
	statedb.CreateAccount(addr)

	target := common.BytesToAddress([]byte{0xbb})
	code := []byte{byte(PUSH1), byte(target[19]), byte(BALANCE), byte(POP),
		byte(PUSH1), byte(target[19]), byte(BALANCE), byte(POP), byte(STOP)}
	statedb.SetCode(addr, code)

	evm := newTestEVM(statedb, Config{})

	const supplied = uint64(100000)
	_, gas, err := evm.Call(AccountRef(common.Address{}), addr, nil, supplied, new(big.Int))
	require.NoError(t, err)

	// PUSH1(3) + cold BALANCE(2600) + POP(2), then PUSH1(3) + warm BALANCE(100) + POP(2)
	require.Equal(t, uint64(3+2600+2+3+100+2), supplied-gas)
	require.True(t, statedb.AddressInAccessList(target))
}

func TestCreateAddressCollision(t *testing.T) {
	statedb := state.New()
	caller := common.BytesToAddress([]byte{0x06})
	statedb.CreateAccount(caller)

	// Precompute where CREATE would deploy and occupy that address.
	evm := newTestEVM(statedb, Config{})
	targetNonce := statedb.GetNonce(caller)
	collision := crypto.CreateAddress(caller, targetNonce)
	statedb.CreateAccount(collision)
	statedb.SetNonce(collision, 1)

	_, _, gas, err := evm.Create(AccountRef(caller), []byte{byte(STOP)}, 100000, new(big.Int))
	require.Equal(t, ErrContractAddressCollision, err)
	require.Equal(t, uint64(0), gas)
}

func TestCreateDeploysCode(t *testing.T) {
	statedb := state.New()
	caller := common.BytesToAddress([]byte{0x07})
	statedb.CreateAccount(caller)

	evm := newTestEVM(statedb, Config{})

	// Init code storing 0x60016001 as the deployed body:
	// PUSH4 60016001 PUSH1 00 MSTORE PUSH1 04 PUSH1 1c RETURN
	initcode := []byte{
		byte(PUSH4), 0x60, 0x01, 0x60, 0x01,
		byte(PUSH1), 0x00, byte(MSTORE),
		byte(PUSH1), 0x04, byte(PUSH1), 0x1c, byte(RETURN),
	}
	ret, addr, _, err := evm.Create(AccountRef(caller), initcode, 1000000, new(big.Int))
	require.NoError(t, err)
	require.Equal(t, []byte{0x60, 0x01, 0x60, 0x01}, ret)
	require.Equal(t, []byte{0x60, 0x01, 0x60, 0x01}, statedb.GetCode(addr))
	require.Equal(t, uint64(1), statedb.GetNonce(addr), "EIP-158 sets created account nonce to 1")
}

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
	"github.com/Wodann/revm/params"
	"github.com/holiman/uint256"
)

type twoOperandTestcase struct {
	X        string
	Y        string
	Expected string
}

func testTwoOperandOp(t *testing.T, tests []twoOperandTestcase, opFn executionFunc, name string) {
	var (
		env         = NewEVM(Context{BlockNumber: new(big.Int)}, nil, params.TestChainConfig, Config{})
		stack       = newstack()
		pc          = uint64(0)
		callContext = &callCtx{nil, stack, nil}
	)
	defer returnStack(stack)

	for i, test := range tests {
		x := new(uint256.Int).SetBytes(common.Hex2Bytes(test.X))
		y := new(uint256.Int).SetBytes(common.Hex2Bytes(test.Y))
		expected := new(uint256.Int).SetBytes(common.Hex2Bytes(test.Expected))
		stack.push(x)
		stack.push(y)
		opFn(&pc, env.interpreter, callContext)
		if len(stack.data) != 1 {
			t.Errorf("Expected one item on stack after %v, got %d", name, len(stack.data))
		}
		actual := stack.pop()

		if actual.Cmp(expected) != 0 {
			t.Errorf("Testcase %v %d, %v(%x, %x): expected  %x, got %x", name, i, name, x, y, expected, actual)
		}
	}
}

func TestByteOp(t *testing.T) {
	tests := []twoOperandTestcase{
		{"ABCDEF0908070605040302010000000000000000000000000000000000000000", "00", "AB"},
		{"ABCDEF0908070605040302010000000000000000000000000000000000000000", "01", "CD"},
		{"00CDEF090807060504030201ffffffffffffffffffffffffffffffffffffffff", "00", "00"},
		{"00CDEF090807060504030201ffffffffffffffffffffffffffffffffffffffff", "01", "CD"},
		{"0000000000000000000000000000000000000000000000000000000000102030", "1F", "30"},
		{"0000000000000000000000000000000000000000000000000000000000102030", "1E", "20"},
		{"ABCDEF0908070605040302010000000000000000000000000000000000000000", "20", "00"},
		{"ABCDEF0908070605040302010000000000000000000000000000000000000000", "FFFFFFFFFFFFFFFF", "00"},
	}
	testTwoOperandOp(t, tests, opByte, "byte")
}

func TestSHL(t *testing.T) {
	// Testcases from EIP-145, https://eips.ethereum.org/EIPS/eip-145
	tests := []twoOperandTestcase{
		{"0000000000000000000000000000000000000000000000000000000000000001", "01", "0000000000000000000000000000000000000000000000000000000000000002"},
		{"0000000000000000000000000000000000000000000000000000000000000001", "ff", "8000000000000000000000000000000000000000000000000000000000000000"},
		{"0000000000000000000000000000000000000000000000000000000000000001", "0100", "0000000000000000000000000000000000000000000000000000000000000000"},
		{"0000000000000000000000000000000000000000000000000000000000000001", "0101", "0000000000000000000000000000000000000000000000000000000000000000"},
		{"ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff", "00", "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"},
		{"ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff", "01", "fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffe"},
		{"ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff", "ff", "8000000000000000000000000000000000000000000000000000000000000000"},
		{"ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff", "0100", "0000000000000000000000000000000000000000000000000000000000000000"},
		{"0000000000000000000000000000000000000000000000000000000000000000", "01", "0000000000000000000000000000000000000000000000000000000000000000"},
		{"7fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff", "01", "fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffe"},
	}
	testTwoOperandOp(t, tests, opSHL, "shl")
}

func TestSHR(t *testing.T) {
	// Testcases from EIP-145, https://eips.ethereum.org/EIPS/eip-145
	tests := []twoOperandTestcase{
		{"0000000000000000000000000000000000000000000000000000000000000001", "00", "0000000000000000000000000000000000000000000000000000000000000001"},
		{"0000000000000000000000000000000000000000000000000000000000000001", "01", "0000000000000000000000000000000000000000000000000000000000000000"},
		{"8000000000000000000000000000000000000000000000000000000000000000", "01", "4000000000000000000000000000000000000000000000000000000000000000"},
		{"8000000000000000000000000000000000000000000000000000000000000000", "ff", "0000000000000000000000000000000000000000000000000000000000000001"},
		{"8000000000000000000000000000000000000000000000000000000000000000", "0100", "0000000000000000000000000000000000000000000000000000000000000000"},
		{"8000000000000000000000000000000000000000000000000000000000000000", "0101", "0000000000000000000000000000000000000000000000000000000000000000"},
		{"ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff", "00", "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"},
		{"ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff", "01", "7fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"},
		{"ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff", "ff", "0000000000000000000000000000000000000000000000000000000000000001"},
		{"ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff", "0100", "0000000000000000000000000000000000000000000000000000000000000000"},
		{"0000000000000000000000000000000000000000000000000000000000000000", "01", "0000000000000000000000000000000000000000000000000000000000000000"},
	}
	testTwoOperandOp(t, tests, opSHR, "shr")
}

func TestSAR(t *testing.T) {
	// Testcases from EIP-145, https://eips.ethereum.org/EIPS/eip-145
	tests := []twoOperandTestcase{
		{"0000000000000000000000000000000000000000000000000000000000000001", "00", "0000000000000000000000000000000000000000000000000000000000000001"},
		{"0000000000000000000000000000000000000000000000000000000000000001", "01", "0000000000000000000000000000000000000000000000000000000000000000"},
		{"8000000000000000000000000000000000000000000000000000000000000000", "01", "c000000000000000000000000000000000000000000000000000000000000000"},
		{"8000000000000000000000000000000000000000000000000000000000000000", "ff", "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"},
		{"8000000000000000000000000000000000000000000000000000000000000000", "0100", "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"},
		{"8000000000000000000000000000000000000000000000000000000000000000", "0101", "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"},
		{"ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff", "00", "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"},
		{"ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff", "01", "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"},
		{"ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff", "ff", "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"},
		{"ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff", "0100", "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"},
		{"0000000000000000000000000000000000000000000000000000000000000000", "01", "0000000000000000000000000000000000000000000000000000000000000000"},
		{"4000000000000000000000000000000000000000000000000000000000000000", "fe", "0000000000000000000000000000000000000000000000000000000000000001"},
		{"7fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff", "f8", "000000000000000000000000000000000000000000000000000000000000007f"},
		{"7fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff", "fe", "0000000000000000000000000000000000000000000000000000000000000001"},
		{"7fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff", "ff", "0000000000000000000000000000000000000000000000000000000000000000"},
		{"7fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff", "0100", "0000000000000000000000000000000000000000000000000000000000000000"},
	}
	testTwoOperandOp(t, tests, opSAR, "sar")
}

func TestAddSub(t *testing.T) {
	addTests := []twoOperandTestcase{
		{"01", "01", "02"},
		{"ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff", "01", "00"},
	}
	testTwoOperandOp(t, addTests, opAdd, "add")

	subTests := []twoOperandTestcase{
		// y - x with x pushed first
		{"01", "03", "02"},
		{"02", "01", "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"},
	}
	testTwoOperandOp(t, subTests, opSub, "sub")
}

func TestSignExtend(t *testing.T) {
	tests := []twoOperandTestcase{
		{"ff", "00", "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"},
		{"7f", "00", "000000000000000000000000000000000000000000000000000000000000007f"},
		{"ff", "20", "00000000000000000000000000000000000000000000000000000000000000ff"},
	}
	testTwoOperandOp(t, tests, opSignExtend, "signextend")
}

func TestOpMstore(t *testing.T) {
	var (
		env         = NewEVM(Context{BlockNumber: new(big.Int)}, nil, params.TestChainConfig, Config{})
		stack       = newstack()
		mem         = NewMemory()
		callContext = &callCtx{mem, stack, nil}
		pc          = uint64(0)
	)
	defer returnStack(stack)
	mem.Resize(64)

	v := "abcdef00000000000000abba000000000deaf000000c0de00100000000133700"
	stack.pushN(*new(uint256.Int).SetBytes(common.Hex2Bytes(v)), *new(uint256.Int))
	opMstore(&pc, env.interpreter, callContext)
	if got := common.Bytes2Hex(mem.GetCopy(0, 32)); got != v {
		t.Fatalf("Mstore fail, got %v, expected %v", got, v)
	}
	stack.pushN(*new(uint256.Int).SetOne(), *new(uint256.Int))
	opMstore(&pc, env.interpreter, callContext)
	if common.Bytes2Hex(mem.GetCopy(0, 32)) != "0000000000000000000000000000000000000000000000000000000000000001" {
		t.Fatalf("Mstore failed to overwrite previous value")
	}
}

func TestOpMload(t *testing.T) {
	var (
		env         = NewEVM(Context{BlockNumber: new(big.Int)}, nil, params.TestChainConfig, Config{})
		stack       = newstack()
		mem         = NewMemory()
		callContext = &callCtx{mem, stack, nil}
		pc          = uint64(0)
	)
	defer returnStack(stack)
	mem.Resize(64)
	mem.Set(30, 2, []byte{0x01, 0x02})

	stack.push(new(uint256.Int)) // offset 0
	opMload(&pc, env.interpreter, callContext)
	if got := stack.pop(); got.Uint64() != 0x0102 {
		t.Fatalf("Mload fail, got %x, expected 0102", got.Uint64())
	}
}

func TestOpSha3(t *testing.T) {
	var (
		env         = NewEVM(Context{BlockNumber: new(big.Int)}, nil, params.TestChainConfig, Config{})
		stack       = newstack()
		mem         = NewMemory()
		callContext = &callCtx{mem, stack, nil}
		pc          = uint64(0)
	)
	defer returnStack(stack)
	mem.Resize(32)

	// Hash of the empty string must match the well-known constant.
	stack.pushN(*new(uint256.Int), *new(uint256.Int)) // size 0, offset 0
	opSha3(&pc, env.interpreter, callContext)
	got := stack.pop()
	want := new(uint256.Int).SetBytes(emptyCodeHash.Bytes())
	if got.Cmp(want) != 0 {
		t.Fatalf("sha3 of empty input: got %x, want %x", got.Bytes32(), want.Bytes32())
	}
}

func TestPushPastCodeEnd(t *testing.T) {
	var (
		env         = NewEVM(Context{BlockNumber: new(big.Int)}, nil, params.TestChainConfig, Config{})
		stack       = newstack()
		contract    = NewContract(AccountRef(common.Address{}), AccountRef(common.Address{}), new(big.Int), 0)
		callContext = &callCtx{nil, stack, contract}
	)
	defer returnStack(stack)

	// PUSH4 with only two bytes of immediate available: missing bytes read
	// as zero on the right.
	contract.Code = []byte{byte(PUSH4), 0xAA, 0xBB}
	pc := uint64(0)
	makePush(4, 4)(&pc, env.interpreter, callContext)
	if got := stack.pop(); got.Uint64() != 0xAABB0000 {
		t.Fatalf("push past code end: got %x, want aabb0000", got.Uint64())
	}
}

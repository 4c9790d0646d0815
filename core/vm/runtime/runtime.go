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

// Package runtime wraps the EVM in a convenience layer for standalone
// execution: it fabricates the block context, holds an in-memory state and
// settles gas refunds after the top-level frame returns.
package runtime

import (
	"math"
	"math/big"

	"github.com/Wodann/revm/common"
	"github.com/Wodann/revm/core/state"
	"github.com/Wodann/revm/core/vm"
	"github.com/Wodann/revm/crypto"
	"github.com/Wodann/revm/params"
)

// Config is a basic type specifying certain configuration flags for running
// the EVM.
type Config struct {
	ChainConfig *params.ChainConfig
	Difficulty  *big.Int
	Origin      common.Address
	Coinbase    common.Address
	BlockNumber *big.Int
	Time        *big.Int
	GasLimit    uint64
	GasPrice    *big.Int
	Value       *big.Int
	Debug       bool
	EVMConfig   vm.Config
	BaseFee     *big.Int

	State     *state.StateDB
	GetHashFn func(n uint64) common.Hash
}

// sets defaults on the config
func setDefaults(cfg *Config) {
	if cfg.ChainConfig == nil {
		cfg.ChainConfig = &params.ChainConfig{
			ChainID:             big.NewInt(1),
			HomesteadBlock:      new(big.Int),
			EIP150Block:         new(big.Int),
			EIP155Block:         new(big.Int),
			EIP158Block:         new(big.Int),
			ByzantiumBlock:      new(big.Int),
			ConstantinopleBlock: new(big.Int),
			PetersburgBlock:     new(big.Int),
			IstanbulBlock:       new(big.Int),
			BerlinBlock:         new(big.Int),
			LondonBlock:         new(big.Int),
		}
	}

	if cfg.Difficulty == nil {
		cfg.Difficulty = new(big.Int)
	}
	if cfg.Time == nil {
		cfg.Time = new(big.Int)
	}
	if cfg.GasLimit == 0 {
		cfg.GasLimit = math.MaxUint64
	}
	if cfg.GasPrice == nil {
		cfg.GasPrice = new(big.Int)
	}
	if cfg.Value == nil {
		cfg.Value = new(big.Int)
	}
	if cfg.BlockNumber == nil {
		cfg.BlockNumber = new(big.Int)
	}
	if cfg.BaseFee == nil && cfg.ChainConfig.IsLondon(cfg.BlockNumber) {
		cfg.BaseFee = big.NewInt(params.InitialBaseFee)
	}
	if cfg.GetHashFn == nil {
		cfg.GetHashFn = func(n uint64) common.Hash {
			return common.BytesToHash(crypto.Keccak256([]byte(new(big.Int).SetUint64(n).String())))
		}
	}
}

// refundQuotient returns the divisor applied to used gas when capping the
// refund counter. London lowered the cap from one half to one fifth.
func refundQuotient(cfg *Config) uint64 {
	if cfg.ChainConfig.IsLondon(cfg.BlockNumber) {
		return params.RefundQuotientEIP3529
	}
	return params.RefundQuotient
}

// settleRefund credits the capped refund counter back to the leftover gas.
// Refunds only apply to the outermost frame and only after it has returned
// without error.
func settleRefund(cfg *Config, supplied, leftOver uint64) uint64 {
	refund := cfg.State.GetRefund()
	if max := (supplied - leftOver) / refundQuotient(cfg); refund > max {
		refund = max
	}
	return leftOver + refund
}

// Execute executes the code using the input as call data during the execution.
// It returns the EVM's return value, the new state and an error if it failed.
//
// Execute sets up an in-memory, temporary, environment for the execution of
// the given code. It makes sure that it's restored to its original state afterwards.
func Execute(code, input []byte, cfg *Config) ([]byte, *state.StateDB, error) {
	if cfg == nil {
		cfg = new(Config)
	}
	setDefaults(cfg)

	if cfg.State == nil {
		cfg.State = state.New()
	}
	var (
		address = common.BytesToAddress([]byte("contract"))
		vmenv   = NewEnv(cfg)
		sender  = vm.AccountRef(cfg.Origin)
	)
	if cfg.ChainConfig.IsBerlin(cfg.BlockNumber) {
		cfg.State.PrepareAccessList(cfg.Origin, &address, vm.ActivePrecompiles(cfg.ChainConfig.Rules(cfg.BlockNumber)))
	}
	cfg.State.CreateAccount(address)
	// set the receiver's (the executing contract) code for execution.
	cfg.State.SetCode(address, code)
	// Call the code with the given configuration.
	ret, _, err := vmenv.Call(
		sender,
		address,
		input,
		cfg.GasLimit,
		cfg.Value,
	)
	return ret, cfg.State, err
}

// Create executes the code using the EVM create method
func Create(input []byte, cfg *Config) ([]byte, common.Address, uint64, error) {
	if cfg == nil {
		cfg = new(Config)
	}
	setDefaults(cfg)

	if cfg.State == nil {
		cfg.State = state.New()
	}
	var (
		vmenv  = NewEnv(cfg)
		sender = vm.AccountRef(cfg.Origin)
	)
	if cfg.ChainConfig.IsBerlin(cfg.BlockNumber) {
		cfg.State.PrepareAccessList(cfg.Origin, nil, vm.ActivePrecompiles(cfg.ChainConfig.Rules(cfg.BlockNumber)))
	}
	// Call the code with the given configuration.
	code, address, leftOverGas, err := vmenv.Create(
		sender,
		input,
		cfg.GasLimit,
		cfg.Value,
	)
	if err == nil {
		leftOverGas = settleRefund(cfg, cfg.GasLimit, leftOverGas)
	}
	return code, address, leftOverGas, err
}

// Call executes the code given by the contract's address. It will return the
// EVM's return value or an error if it failed.
//
// Call, unlike Execute, requires a config and also requires the State field to
// be set.
func Call(address common.Address, input []byte, cfg *Config) ([]byte, uint64, error) {
	setDefaults(cfg)

	vmenv := NewEnv(cfg)

	if !cfg.State.Exist(cfg.Origin) {
		cfg.State.CreateAccount(cfg.Origin)
	}
	sender := vm.AccountRef(cfg.Origin)
	if cfg.ChainConfig.IsBerlin(cfg.BlockNumber) {
		cfg.State.PrepareAccessList(cfg.Origin, &address, vm.ActivePrecompiles(cfg.ChainConfig.Rules(cfg.BlockNumber)))
	}
	// Call the code with the given configuration.
	ret, leftOverGas, err := vmenv.Call(
		sender,
		address,
		input,
		cfg.GasLimit,
		cfg.Value,
	)
	if err == nil {
		leftOverGas = settleRefund(cfg, cfg.GasLimit, leftOverGas)
	}
	return ret, leftOverGas, err
}

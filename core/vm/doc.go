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

/*
Package vm implements the Ethereum Virtual Machine.

The vm package contains a stack-based virtual machine executing EVM
bytecode deterministically: the same code, input, state and fork rules
always produce the same result and gas usage. Every instruction is gas
metered up front, memory grows in 32-byte words with a quadratic cost,
and jump destinations are validated against a bitmap computed once per
code blob.

Execution enters through the EVM object's Call, CallCode, DelegateCall,
StaticCall, Create and Create2 methods, which manage value transfer,
snapshots and the 1024-frame depth limit before handing the frame to the
interpreter run loop. The host environment is abstracted behind the
StateDB interface.
*/
package vm

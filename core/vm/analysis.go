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
	lru "github.com/hashicorp/golang-lru"

	"github.com/Wodann/revm/common"
)

// bitmapCacheSize bounds the number of analysed code bodies retained across
// executions. Entries are keyed by code hash, so repeated calls into the
// same contract never re-scan its body.
const bitmapCacheSize = 4096

var bitmapCache, _ = lru.New(bitmapCacheSize)

// codeBitmapForHash returns the cached jump destination bitmap for the code
// body identified by hash, computing and caching it on a miss. An empty hash
// denotes code with no known identity (initcode) which is never cached.
func codeBitmapForHash(hash common.Hash, code []byte) bitvec {
	if hash == (common.Hash{}) {
		return codeBitmap(code)
	}
	if cached, ok := bitmapCache.Get(hash); ok {
		return cached.(bitvec)
	}
	analysis := codeBitmap(code)
	bitmapCache.Add(hash, analysis)
	return analysis
}

// bitvec is a bit vector which maps bytes in a program.
// An unset bit means the byte is an opcode, a set bit means
// it's data (i.e. argument of PUSHxx).
type bitvec []byte

var lookup = [8]byte{
	0x80, 0x40, 0x20, 0x10, 0x8, 0x4, 0x2, 0x1,
}

func (bits bitvec) set(pos uint64) {
	bits[pos/8] |= lookup[pos%8]
}

func (bits bitvec) set8(pos uint64) {
	bits[pos/8] |= 0xFF >> (pos % 8)
	bits[pos/8+1] |= ^(0xFF >> (pos % 8))
}

// codeSegment checks if the position is in a code segment.
func (bits *bitvec) codeSegment(pos uint64) bool {
	return ((*bits)[pos/8] & (0x80 >> (pos % 8))) == 0
}

// codeBitmap collects data locations in code.
func codeBitmap(code []byte) bitvec {
	// The bitmap is 4 bytes longer than necessary, in case the code
	// ends with a PUSH32, the algorithm will push zeroes onto the
	// bitvector outside the bounds of the actual code.
	bits := make(bitvec, len(code)/8+1+4)
	for pc := uint64(0); pc < uint64(len(code)); {
		op := OpCode(code[pc])

		if op >= PUSH1 && op <= PUSH32 {
			numbits := op - PUSH1 + 1
			pc++
			for ; numbits >= 8; numbits -= 8 {
				bits.set8(pc) // 8
				pc += 8
			}
			for ; numbits > 0; numbits-- {
				bits.set(pc)
				pc++
			}
		} else {
			pc++
		}
	}
	return bits
}

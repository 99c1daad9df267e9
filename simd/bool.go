package simd

import "math/bits"

// Bool4 is a per-lane boolean mask for 4-wide registers, one bit per lane.
type Bool4 uint8

const Bool4All Bool4 = 0xF

func (b Bool4) Get(i int) bool {
	return b&(1<<uint(i)) != 0
}

func (b Bool4) And(other Bool4) Bool4 { return b & other }
func (b Bool4) Or(other Bool4) Bool4  { return b | other }
func (b Bool4) Not() Bool4            { return ^b & Bool4All }

func (b Bool4) All() bool  { return b == Bool4All }
func (b Bool4) Any() bool  { return b != 0 }
func (b Bool4) None() bool { return b == 0 }

func (b Bool4) Count() int { return bits.OnesCount8(uint8(b)) }

// Bool8 is a per-lane boolean mask for 8-wide registers, one bit per lane.
type Bool8 uint8

const Bool8All Bool8 = 0xFF

func (b Bool8) Get(i int) bool {
	return b&(1<<uint(i)) != 0
}

func (b Bool8) And(other Bool8) Bool8 { return b & other }
func (b Bool8) Or(other Bool8) Bool8  { return b | other }
func (b Bool8) Not() Bool8            { return ^b }

func (b Bool8) All() bool  { return b == Bool8All }
func (b Bool8) Any() bool  { return b != 0 }
func (b Bool8) None() bool { return b == 0 }

func (b Bool8) Count() int { return bits.OnesCount8(uint8(b)) }

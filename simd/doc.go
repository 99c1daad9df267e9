// Package simd provides portable 4-wide and 8-wide float/integer registers
// with the operations the tracing kernels need: lane arithmetic, compares
// producing bit masks, blends, horizontal reductions, gathers and a set of
// polynomial transcendentals with bounded error.
//
// All implementations are plain Go. The register types are fixed-size arrays
// so they compile to flat stack values; the compiler is free to vectorize
// the lane loops on targets where that pays off.
package simd

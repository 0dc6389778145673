// Package ir is the term authority for linear-arithmetic certificates.
//
// It owns the closed operator set (Op), the immutable Term node, and the
// Store that interns terms so that structurally equal terms are the same
// pointer. ir imports nothing internal except rational; every other
// package builds and inspects terms through it.
//
// Key design constraints:
//   - Terms are never mutated after interning. Rewrites build new terms.
//   - Operators form a closed enumeration; unknown function symbols are
//     OpApp, anything without a meaning here is OpOther.
//   - Numerals carry exact rationals, never floats.
//   - Term identity is a content hash of canonical JSON with domain
//     separation, so IDs are stable across processes.
//   - A Store is not safe for concurrent use. Callers that check several
//     certificates in parallel give each one its own Store.
package ir

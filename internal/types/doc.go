// Package types provides the static type model of the Shadow compiler.
//
// This package is the leaf of the compiler's middle layer: internal/tac
// imports types; types imports nothing internal.
//
// Key design constraints:
//   - Types are immutable once their Registry is frozen
//   - Equality is by qualified name, never by object identity (see Equal)
//   - Subtype judgments never fail loudly: they return false
//   - Subtyping is a partial order; edges that would close a cycle are rejected
//   - Arrays are invariant: T[] <: U[] only when T equals U
package types

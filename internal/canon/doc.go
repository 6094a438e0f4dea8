// Package canon serializes values to canonical JSON and hashes them.
//
// Canonical JSON here follows RFC 8785 for the value domain the compiler
// needs: strings, integers, booleans, arrays and objects. Object keys are
// ordered by UTF-16 code units, strings are NFC-normalized and not
// HTML-escaped, and floats and null are rejected. Equal values always
// produce equal bytes, so hashes of declaration sets and TAC dumps are
// stable cache keys.
package canon

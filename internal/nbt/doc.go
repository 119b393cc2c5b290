// Package nbt owns the binary save-format decoder.
//
// Ownership boundary:
// - tag ids and the generic tagged value tree
// - cursor-based binary decoding
// - JSON boundary rendering (64-bit safe)
package nbt

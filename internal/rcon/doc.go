// Package rcon owns the remote-command client for one managed game-server
// instance.
//
// Ownership boundary:
// - little-endian length-prefixed packet codec
// - residual-buffer reassembly of arbitrarily chunked reads
// - one authenticated session per instance with request-id correlation
package rcon

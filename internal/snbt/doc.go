// Package snbt converts the loosely-typed textual tag dialect returned by
// in-game data-inspection commands into a generic value.
//
// The conversion is a staged, order-sensitive text rewrite into strict JSON
// followed by strict parsing. It is a best-effort heuristic, not a formal
// grammar: string contents that resemble structural tokens can misparse.
// A failed conversion is a normal, recoverable outcome.
package snbt

// Package chain implements the derivation engine: a strictly sequential hash
// chain that yields one raw digest per iteration.
//
// Iteration i hashes the current value under salts[i mod len(salts)] and then
// replaces the current value with the PHC encoding of the digest it just
// produced. Every digest therefore depends on the initial value, every earlier
// salt and the iteration order.
//
// # Concurrency
//
// A [Chain] is owned by exactly one goroutine. Independent runs must build
// independent chains. Cancellation is observed between iterations only; a hash
// that has started always runs to completion.
//
// # What this package must NOT do
//
//   - Obtain initial values or salts itself (prompting and file loading are
//     caller concerns).
//   - Retry a failed iteration. Identical inputs fail identically.
//   - Render passwords. Digests go to the encoder package.
package chain

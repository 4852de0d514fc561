// Package kdf wraps Argon2id as the memory-hard keyed hash consumed by the
// derivation chain.
//
// # Output format
//
// Digests are encoded in PHC string format:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// The encoded form is canonical: the same secret, salt and [Params] always
// produce the same string, which is what lets the chain feed it back in as the
// next iteration's secret.
//
// # Salt normalization
//
// Caller salts are arbitrary strings and may be shorter than Argon2's salt floor.
// [Argon2.Derive] maps every salt to exactly [Params.SaltLength] bytes through
// SHA-256 before hashing, so short salts stay deterministic and valid.
//
// # What this package must NOT do
//
//   - Generate randomness. Every output is a pure function of its inputs.
//   - Import any other argonchain package.
//   - Log secrets, salts or digests.
package kdf

// Package argonchain derives reproducible sequences of passwords from a
// single initial value by chaining a memory-hard hash.
//
// Iteration i hashes the previous iteration's encoded digest (the initial
// value for i = 0) under salt i mod k of an ordered salt list, and encodes the
// digest into a password that satisfies a character [encoder.Policy]. The same
// initial value, salts, cost parameters and policy always produce the same
// sequence.
//
// # Architecture boundaries
//
// argonchain is the public surface: [Builder], [Config], [Generator] and
// [Run]. The sub-packages each own one concern:
//
//   - kdf: Argon2id derivation and PHC digest encoding.
//   - chain: the iteration state machine and salt rotation.
//   - encoder: deterministic digest-to-password mapping.
//   - receipt: signed run receipts.
//   - metrics/export: Prometheus and OpenTelemetry adapters.
//
// # What this package must NOT do
//
//   - Log, audit or export the initial value, salts, digests or passwords.
//     Only the observer a caller registers ever sees a password.
//   - Retry a failed iteration. A failure ends the run with a [*RunError].
//   - Hash anything before the configuration has been validated.
//
// # Performance contract
//
// Each iteration costs one Argon2id call at the configured memory and time
// cost, so runs are CPU- and memory-bound. Generator methods are safe to call
// from multiple goroutines; a single [Run] is not.
package argonchain

// Package encoder renders a raw digest into a printable password that obeys a
// character-class [Policy].
//
// # Sampling scheme
//
// The digest seeds HKDF-SHA256 (info "argonchain/encoder/v1"), which yields a
// ChaCha20 key and nonce. The ChaCha20 keystream is read as little-endian
// 32-bit words and mapped to indices by rejection sampling, so every index in
// [0, n) is equally likely. The same digest always yields the same password.
//
// # Layout
//
// Minimum-count characters are drawn first, the remainder is filled from the
// union of active classes, and the whole sequence is then Fisher-Yates shuffled
// with the same sampler. No class is pinned to a fixed position.
package encoder

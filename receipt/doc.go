// Package receipt issues and verifies signed run receipts: compact JWTs that
// record the public shape of a derivation run (iteration count, salt count,
// cost parameters, policy) so the same run can be reproduced and audited later.
//
// # What this package must NOT do
//
//   - Put the initial value, salts, digests or passwords into claims.
//   - Import the argonchain root package.
package receipt

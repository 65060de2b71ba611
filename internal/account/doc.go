// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keyward Contributors

// Package account implements credential checks, token issuance and the
// two-stage password recovery flow for Keyward.
//
// # Components
//
//   - PasswordHasher / Argon2idHasher - salted password hashing and verification
//   - TokenService - signed, expiring tokens, one secret and TTL per TokenClass
//   - OTPStore - one-time codes bound to a user, a purpose and a stage-1 token
//   - RecoveryService - Request, VerifyCode and Commit steps of password recovery
//   - Service - login, refresh, password change, user administration
//
// Service is the only type transports are expected to call. Constructors
// validate their required dependencies and return an error when one is nil.
//
// # Errors
//
// Failures carry an oops code. KindOf maps any returned error to a Kind
// (NotFound, Forbidden, Unauthorized, ...) and PublicMessage returns the text
// that is safe to show to a caller.
package account

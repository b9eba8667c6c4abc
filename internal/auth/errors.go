package auth

import "errors"

// Sentinel errors for the authentication core. Handlers translate these
// into envelope responses; none of them carry internal detail.
var (
	// ErrInvalidInput rejects unusable secrets before hashing.
	ErrInvalidInput = errors.New("auth: invalid input")

	// ErrInvalidCredentials covers both unknown email and wrong password.
	// The two cases are deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// ErrAccountInactive is returned on login when the account exists but
	// has been deactivated. Unlike ErrInvalidCredentials it is
	// distinguishable: deactivation is not hidden from the owner.
	ErrAccountInactive = errors.New("auth: account inactive")

	// ErrEmailTaken rejects registration against a live account's email.
	ErrEmailTaken = errors.New("auth: email taken")

	// ErrAccountNotFound means a subject id no longer resolves to a live
	// account.
	ErrAccountNotFound = errors.New("auth: account not found")

	// ErrInvalidToken is the uniform verification failure surfaced to the
	// gate. The underlying cause (malformed, bad signature, expired,
	// revoked subject) is kept for logging only.
	ErrInvalidToken = errors.New("auth: invalid token")
)

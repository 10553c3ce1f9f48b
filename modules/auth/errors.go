package auth

import (
	"errors"
)

var (
	// ErrInvalidCredentials is returned for an unknown email or a wrong password.
	// Both cases share the error so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInactive is returned when the account has been disabled.
	ErrInactive = errors.New("user is inactive")
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("email already in use")
	// ErrPasswordTooLong is returned when a password exceeds bcrypt's 72-byte limit.
	ErrPasswordTooLong = errors.New("password must be at most 72 bytes")

	// ErrMalformedToken is returned when a token cannot be parsed or verified.
	ErrMalformedToken = errors.New("malformed token")
	// ErrExpiredToken is returned when the token is past its expiry.
	ErrExpiredToken = errors.New("token has expired")
	// ErrWrongTokenClass is returned when an access token is used as a refresh token or vice versa.
	ErrWrongTokenClass = errors.New("wrong token class")
	// ErrUnknownSubject is returned when a valid token names a user that no longer exists.
	ErrUnknownSubject = errors.New("token subject not found")

	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
)

// Wire codes carried in the "error" field of service replies.
const (
	CodeInvalidCredentials = "invalid_credentials"
	CodeInactive           = "inactive_user"
	CodeEmailTaken         = "email_taken"
	CodePasswordTooLong    = "password_too_long"
	CodeMalformedToken     = "invalid_token"
	CodeExpiredToken       = "token_expired"
	CodeWrongTokenClass    = "wrong_token_class"
	CodeUnknownSubject     = "unknown_subject"
	CodeUserNotFound       = "user_not_found"
)

var codes = []struct {
	code string
	err  error
}{
	{CodeInvalidCredentials, ErrInvalidCredentials},
	{CodeInactive, ErrInactive},
	{CodeEmailTaken, ErrEmailTaken},
	{CodePasswordTooLong, ErrPasswordTooLong},
	{CodeMalformedToken, ErrMalformedToken},
	{CodeExpiredToken, ErrExpiredToken},
	{CodeWrongTokenClass, ErrWrongTokenClass},
	{CodeUnknownSubject, ErrUnknownSubject},
	{CodeUserNotFound, ErrUserNotFound},
}

// ErrorCode returns the wire code for a domain error.
// The second result is false for errors that are not part of the auth taxonomy.
func ErrorCode(err error) (string, bool) {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code, true
		}
	}
	return "", false
}

// ErrorFromCode maps a wire code back to its sentinel error.
// Unknown codes yield nil.
func ErrorFromCode(code string) error {
	for _, c := range codes {
		if c.code == code {
			return c.err
		}
	}
	return nil
}

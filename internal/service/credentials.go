package service

import "context"

// PasswordVerifier is the credential collaborator owned by the application
// tier. The edge service never hashes or compares passwords itself; it only
// asks whether a userID/password pair is valid.
type PasswordVerifier interface {
	Verify(ctx context.Context, userID uint, password string) (bool, error)
}

// PasswordVerifierFunc adapts a function to PasswordVerifier.
type PasswordVerifierFunc func(ctx context.Context, userID uint, password string) (bool, error)

func (f PasswordVerifierFunc) Verify(ctx context.Context, userID uint, password string) (bool, error) {
	return f(ctx, userID, password)
}

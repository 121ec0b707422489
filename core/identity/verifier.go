package identity

import (
	"context"
	"errors"
	"strings"
)

var (
	// errors
	ErrMissingCredential = errors.New("no authentication token provided")
	ErrInvalidCredential = errors.New("authentication failed")
	ErrDomainNotAllowed  = errors.New("email domain not allowed")
	ErrProfileNotFound   = errors.New("user not found")
)

// TokenVerifier is the identity provider boundary.
type TokenVerifier interface {
	// VerifyToken exchanges an opaque signed token for a verified Identity.
	// Signature and expiry rejections surface as ErrInvalidCredential.
	VerifyToken(ctx context.Context, idToken string) (Identity, error)

	// SetRoleClaim durably sets the role custom claim for a uid so
	// subsequent verifications see it without re-deriving it.
	SetRoleClaim(ctx context.Context, uid, role string) error
}

const bearerPrefix = "Bearer "

// BearerToken extracts the raw token from an Authorization header value.
// An absent header or a malformed prefix fails without consulting the
// identity provider.
func BearerToken(header string) (string, error) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", ErrMissingCredential
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return "", ErrMissingCredential
	}
	return token, nil
}

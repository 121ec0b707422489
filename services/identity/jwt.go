package identsvc

import (
	"context"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"

	"github.com/trezcool/karatasi/core/identity"
)

// Claims represents the identity provider's token claims.
type Claims struct {
	jwt.StandardClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"` // custom claim
}

// ClaimStore durably records custom claims set out-of-band, so
// verifications performed before the provider reissues a credential still
// see them.
type ClaimStore interface {
	// GetRoleClaim returns "" when no claim is set for the uid.
	GetRoleClaim(ctx context.Context, uid string) (string, error)
	SetRoleClaim(ctx context.Context, uid, role string) error
}

type jwtVerifier struct {
	secret []byte
	claims ClaimStore
}

var _ identity.TokenVerifier = (*jwtVerifier)(nil) // interface compliance check

// NewJWTVerifier verifies HS256 tokens signed with the secret shared with
// the identity provider's issuer.
func NewJWTVerifier(secret []byte, claims ClaimStore) identity.TokenVerifier {
	return &jwtVerifier{secret: secret, claims: claims}
}

func (v *jwtVerifier) VerifyToken(ctx context.Context, idToken string) (identity.Identity, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(idToken, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		if err == nil {
			err = errors.New("invalid token")
		}
		// the underlying message travels for diagnostics only,
		// never as a trust decision
		return identity.Identity{}, errors.WithMessage(identity.ErrInvalidCredential, err.Error())
	}

	id := identity.Identity{
		UID:   claims.Subject,
		Email: claims.Email,
		Role:  claims.Role,
	}

	// a claim set since this token was issued overrides the embedded one
	role, err := v.claims.GetRoleClaim(ctx, id.UID)
	if err != nil {
		return identity.Identity{}, errors.Wrap(err, "reading role claim")
	}
	if role != "" {
		id.Role = role
	}
	return id, nil
}

func (v *jwtVerifier) SetRoleClaim(ctx context.Context, uid, role string) error {
	return v.claims.SetRoleClaim(ctx, uid, role)
}

// MintToken signs an identity-provider-style token. Dev/test utility; in
// production tokens come from the provider's issuer.
func MintToken(secret []byte, uid, email, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Subject:   uid,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
		Email: email,
		Role:  role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString(secret)
	return ss, errors.Wrap(err, "signing token")
}

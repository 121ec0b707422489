package identity

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/karatasi/core"
)

type (
	Repository interface {
		// UpsertProfile merge-writes the profile keyed by uid: concurrent
		// writers never erase fields written by the other.
		UpsertProfile(ctx context.Context, prof Profile) (Profile, error)
		GetProfileByUID(ctx context.Context, uid string) (Profile, error)
	}

	Service struct {
		verifier TokenVerifier
		repo     Repository
		conf     *core.Config
	}
)

func NewService(verifier TokenVerifier, repo Repository, conf *core.Config) *Service {
	return &Service{verifier: verifier, repo: repo, conf: conf}
}

// Authenticate verifies a bearer token and derives the request Principal.
func (svc *Service) Authenticate(ctx context.Context, idToken string) (Principal, error) {
	id, err := svc.verifier.VerifyToken(ctx, idToken)
	if err != nil {
		return Principal{}, err
	}
	return NewPrincipal(id), nil
}

// VerifySignIn is the one-time (per sign-in) exchange: verify the
// credential, gate on the allowed domain, derive the role, merge-upsert the
// profile and set the role as a durable claim. This is the only place a
// role is computed; everywhere else it is read from a verified claim.
func (svc *Service) VerifySignIn(ctx context.Context, idToken string) (Principal, error) {
	id, err := svc.verifier.VerifyToken(ctx, idToken)
	if err != nil {
		return Principal{}, err
	}
	if !AllowedDomain(id.Email, svc.conf.AllowedEmailDomain) {
		return Principal{}, ErrDomainNotAllowed
	}

	role := DeriveRole(id.Email, svc.conf.AdminEmailMarkers)

	prof := Profile{
		UID:       id.UID,
		Email:     id.Email,
		Role:      role,
		LastLogin: time.Now().UTC(),
	}
	if _, err = svc.repo.UpsertProfile(ctx, prof); err != nil {
		return Principal{}, errors.Wrap(err, "upserting profile")
	}
	if err = svc.verifier.SetRoleClaim(ctx, id.UID, role); err != nil {
		return Principal{}, errors.Wrap(err, "setting role claim")
	}

	return Principal{UID: id.UID, Email: id.Email, Role: role}, nil
}

// Me returns the cached profile for a verified uid.
func (svc *Service) Me(ctx context.Context, uid string) (Profile, error) {
	return svc.repo.GetProfileByUID(ctx, uid)
}

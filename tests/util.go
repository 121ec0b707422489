package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/trezcool/karatasi/core/identity"
	"github.com/trezcool/karatasi/core/submission"
	identsvc "github.com/trezcool/karatasi/services/identity"
)

func CreateSubmission(
	t *testing.T,
	repo submission.Repository,
	uid, email string,
	fields map[string]string,
	status submission.Status,
	createdAt ...time.Time,
) submission.Submission {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	if fields == nil {
		fields = make(map[string]string)
	}
	sub := submission.Submission{
		Fields:         fields,
		Files:          make(map[string]submission.FileRef),
		SubmittedBy:    uid,
		SubmitterEmail: email,
		Status:         status,
		CreatedAt:      tstamp,
		UpdatedAt:      tstamp,
	}
	sub, err := repo.CreateSubmission(context.Background(), sub)
	if err != nil {
		t.Fatalf("CreateSubmission() failed: %v", err)
	}
	return sub
}

func CreateProfile(t *testing.T, repo identity.Repository, uid, email, role string) identity.Profile {
	t.Helper()

	prof, err := repo.UpsertProfile(context.Background(), identity.Profile{
		UID:       uid,
		Email:     email,
		Role:      role,
		LastLogin: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("UpsertProfile() failed: %v", err)
	}
	return prof
}

// MintIDToken signs a bearer credential the API accepts.
func MintIDToken(t *testing.T, secret []byte, uid, email, role string) string {
	t.Helper()

	token, err := identsvc.MintToken(secret, uid, email, role, time.Hour)
	if err != nil {
		t.Fatalf("MintToken() failed: %v", err)
	}
	return token
}

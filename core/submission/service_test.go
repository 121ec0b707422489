package submission_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/karatasi/core"
	"github.com/trezcool/karatasi/core/identity"
	"github.com/trezcool/karatasi/core/submission"
	emailsvc "github.com/trezcool/karatasi/services/email"
	fsblob "github.com/trezcool/karatasi/storage/blob"
	dummydb "github.com/trezcool/karatasi/storage/database/dummy"
	testutil "github.com/trezcool/karatasi/tests"
)

var (
	teacher = identity.Principal{UID: "t1", Email: "wang@tp.edu.tw", Role: identity.RoleTeacher}
	admin   = identity.Principal{UID: "a1", Email: "admin@tp.edu.tw", Role: identity.RoleAdmin}
)

func setup(t *testing.T) (*submission.Service, submission.Repository) {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	repo := dummydb.NewSubmissionRepository(db)

	conf := &core.Config{
		AppName: "Karatasi",
		Media:   core.MediaConfig{Root: t.TempDir(), PublicBaseURL: "http://localhost:8000/media"},
	}
	svc := submission.NewService(repo, fsblob.NewStorage(conf), emailsvc.NewConsoleServiceMock(conf))
	return svc, repo
}

func TestService_Create(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	before := time.Now().UTC()
	sub, err := svc.Create(ctx, teacher, map[string]string{"club": "chess", "instructorName": "Wang"}, &submission.Upload{
		FieldName:   "contract",
		Filename:    "contract.pdf",
		ContentType: "application/pdf",
		Content:     strings.NewReader("%PDF-1.4 fake"),
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if sub.ID == "" {
		t.Error("no id generated")
	}
	if sub.Status != submission.StatusPending {
		t.Errorf("status = %q; want %q", sub.Status, submission.StatusPending)
	}
	if sub.SubmittedBy != teacher.UID || sub.SubmitterEmail != teacher.Email {
		t.Errorf("submitter not stamped: %+v", sub)
	}
	if sub.CreatedAt.Before(before) || sub.UpdatedAt != sub.CreatedAt {
		t.Errorf("timestamps not stamped: created %v updated %v", sub.CreatedAt, sub.UpdatedAt)
	}

	ref, ok := sub.Files["contract"]
	if !ok {
		t.Fatalf("attachment not recorded: %+v", sub.Files)
	}
	if ref.Filename != "contract.pdf" || ref.URL == "" {
		t.Errorf("unexpected file ref %+v", ref)
	}

	t.Run("no attachment", func(t *testing.T) {
		sub, err := svc.Create(ctx, teacher, map[string]string{"club": "go"}, nil)
		if err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
		if len(sub.Files) != 0 {
			t.Errorf("files = %+v; want none", sub.Files)
		}
	})

	t.Run("same filename twice", func(t *testing.T) {
		up := func() *submission.Upload {
			return &submission.Upload{FieldName: "contract", Filename: "contract.pdf", Content: strings.NewReader("x")}
		}
		s1, err := svc.Create(ctx, teacher, nil, up())
		if err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
		s2, err := svc.Create(ctx, teacher, nil, up())
		if err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
		if s1.Files["contract"].URL == s2.Files["contract"].URL {
			t.Error("attachment paths must not collide")
		}
	})
}

func TestService_GetByID(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()

	sub := testutil.CreateSubmission(t, repo, teacher.UID, teacher.Email, map[string]string{"club": "chess"}, submission.StatusPending)
	other := identity.Principal{UID: "t2", Email: "chen@tp.edu.tw", Role: identity.RoleTeacher}

	tests := []struct {
		name    string
		actor   identity.Principal
		id      string
		wantErr error
	}{
		{name: "owner", actor: teacher, id: sub.ID},
		{name: "admin", actor: admin, id: sub.ID},
		{name: "other teacher", actor: other, id: sub.ID, wantErr: submission.ErrPermissionDenied},
		{name: "unknown id", actor: admin, id: "nope", wantErr: submission.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.GetByID(ctx, tt.actor, tt.id)
			if errors.Cause(err) != tt.wantErr {
				t.Fatalf("GetByID() error = %v; wantErr %v", err, tt.wantErr)
			}
			if err == nil && got.ID != sub.ID {
				t.Errorf("got %+v", got)
			}
		})
	}
}

func TestService_UpdateStatus(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()

	sub := testutil.CreateSubmission(t, repo, teacher.UID, teacher.Email, nil, submission.StatusPending)

	before := time.Now().UTC()
	got, err := svc.UpdateStatus(ctx, admin, sub.ID, submission.StatusUpdate{Status: submission.StatusApproved, ReviewNote: "ok"})
	if err != nil {
		t.Fatalf("UpdateStatus() failed: %v", err)
	}
	if got.Status != submission.StatusApproved || got.ReviewNote != "ok" || got.ReviewedBy != admin.UID {
		t.Errorf("review not stamped: %+v", got)
	}
	if got.ReviewedAt.Before(before) || got.UpdatedAt.Before(before) {
		t.Errorf("review timestamps not stamped: %+v", got)
	}

	t.Run("reopen", func(t *testing.T) {
		got, err := svc.UpdateStatus(ctx, admin, sub.ID, submission.StatusUpdate{Status: submission.StatusPending})
		if err != nil {
			t.Fatalf("UpdateStatus() failed: %v", err)
		}
		if got.Status != submission.StatusPending {
			t.Errorf("status = %q", got.Status)
		}
	})

	t.Run("invalid status leaves record untouched", func(t *testing.T) {
		stored, _ := repo.GetSubmissionByID(ctx, sub.ID)

		_, err := svc.UpdateStatus(ctx, admin, sub.ID, submission.StatusUpdate{Status: "archived"})
		var vErr *core.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("error = %v; want validation error", err)
		}

		after, _ := repo.GetSubmissionByID(ctx, sub.ID)
		if after.Status != stored.Status || after.ReviewNote != stored.ReviewNote || !after.UpdatedAt.Equal(stored.UpdatedAt) {
			t.Errorf("record mutated: %+v", after)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, admin, "nope", submission.StatusUpdate{Status: submission.StatusApproved})
		if errors.Cause(err) != submission.ErrNotFound {
			t.Errorf("error = %v; want %v", err, submission.ErrNotFound)
		}
	})
}

func TestService_Query(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 60; i++ {
		fields := map[string]string{"club": "chess"}
		status := submission.StatusPending
		if i%2 == 0 {
			fields["club"] = "go"
			status = submission.StatusApproved
		}
		testutil.CreateSubmission(t, repo, teacher.UID, teacher.Email, fields, status, base.Add(time.Duration(i)*time.Second))
	}

	t.Run("default limit", func(t *testing.T) {
		subs, err := svc.Query(ctx, submission.QueryFilter{})
		if err != nil {
			t.Fatalf("Query() failed: %v", err)
		}
		if len(subs) != submission.DefaultQueryLimit {
			t.Errorf("len = %d; want %d", len(subs), submission.DefaultQueryLimit)
		}
		for i := 1; i < len(subs); i++ {
			if subs[i].CreatedAt.After(subs[i-1].CreatedAt) {
				t.Fatalf("not ordered newest first at %d", i)
			}
		}
	})

	t.Run("conjunctive filters", func(t *testing.T) {
		subs, err := svc.Query(ctx, submission.QueryFilter{Status: "approved", Club: "go", Limit: 100})
		if err != nil {
			t.Fatalf("Query() failed: %v", err)
		}
		if len(subs) != 30 {
			t.Errorf("len = %d; want 30", len(subs))
		}
		for _, sub := range subs {
			if sub.Status != submission.StatusApproved || sub.Club() != "go" {
				t.Errorf("filter leak: %+v", sub)
			}
		}
	})

	t.Run("no match", func(t *testing.T) {
		subs, err := svc.Query(ctx, submission.QueryFilter{Club: "swimming"})
		if err != nil {
			t.Fatalf("Query() failed: %v", err)
		}
		if len(subs) != 0 {
			t.Errorf("len = %d; want 0", len(subs))
		}
	})
}

func TestService_Delete(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()

	sub := testutil.CreateSubmission(t, repo, teacher.UID, teacher.Email, nil, submission.StatusApproved)

	if err := svc.Delete(ctx, sub.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := repo.GetSubmissionByID(ctx, sub.ID); errors.Cause(err) != submission.ErrNotFound {
		t.Errorf("error = %v; want %v", err, submission.ErrNotFound)
	}
	if err := svc.Delete(ctx, sub.ID); errors.Cause(err) != submission.ErrNotFound {
		t.Errorf("repeat delete error = %v; want %v", err, submission.ErrNotFound)
	}
}

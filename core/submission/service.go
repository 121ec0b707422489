package submission

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"

	"github.com/trezcool/karatasi/core"
	"github.com/trezcool/karatasi/core/identity"
)

var (
	// errors
	ErrNotFound         = errors.New("submission not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidStatus    = errors.New("invalid status value")
)

type (
	Repository interface {
		// CreateSubmission persists the record in a single atomic insert
		// and returns it with its generated id.
		CreateSubmission(ctx context.Context, sub Submission) (Submission, error)
		// FilterSubmissions applies AND operation on available QueryFilter
		// fields, orders by CreatedAt descending and always applies the limit.
		FilterSubmissions(ctx context.Context, filter QueryFilter) ([]Submission, error)
		GetSubmissionByID(ctx context.Context, id string) (Submission, error)
		// UpdateSubmissionStatus stamps the review onto the stored record in
		// one statement; last write wins on concurrent reviews.
		UpdateSubmissionStatus(ctx context.Context, id string, rev Review) (Submission, error)
		DeleteSubmission(ctx context.Context, id string) error
	}

	Service struct {
		repo    Repository
		storage core.FileStorage
		mail    core.EmailService
	}
)

func NewService(repo Repository, storage core.FileStorage, mail core.EmailService) *Service {
	return &Service{repo: repo, storage: storage, mail: mail}
}

// Create stores the attachment (if any) and inserts the submission stamped
// with the creating principal and the initial pending status.
func (svc *Service) Create(ctx context.Context, actor identity.Principal, fields map[string]string, upload *Upload) (Submission, error) {
	now := time.Now().UTC()

	files := make(map[string]FileRef)
	if upload != nil {
		ref, err := svc.storeUpload(ctx, upload)
		if err != nil {
			return Submission{}, err
		}
		field := upload.FieldName
		if field == "" {
			field = "file"
		}
		files[field] = ref
	}

	if fields == nil {
		fields = make(map[string]string)
	}
	sub := Submission{
		Fields:         fields,
		Files:          files,
		SubmittedBy:    actor.UID,
		SubmitterEmail: actor.Email,
		Status:         StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return svc.repo.CreateSubmission(ctx, sub)
}

// storeUpload writes the attachment binary and returns its public ref.
// The object path carries a random component so same-name uploads never
// collide regardless of timing.
func (svc *Service) storeUpload(ctx context.Context, upload *Upload) (FileRef, error) {
	name := filepath.Base(upload.Filename)
	path := fmt.Sprintf("submissions/%s_%s", uuid.New().String(), name)

	stored, err := svc.storage.Save(ctx, path, upload.ContentType, upload.Content)
	if err != nil {
		return FileRef{}, pkgerrors.Wrap(err, "saving attachment")
	}
	return FileRef{
		Filename:   upload.Filename,
		URL:        stored.PublicURL,
		UploadedAt: time.Now().UTC(),
	}, nil
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Submission, error) {
	filter.Clean()
	return svc.repo.FilterSubmissions(ctx, filter)
}

// GetByID returns the submission when the actor is an admin or its
// submitter; otherwise ErrPermissionDenied, distinct from ErrNotFound.
func (svc *Service) GetByID(ctx context.Context, actor identity.Principal, id string) (Submission, error) {
	sub, err := svc.repo.GetSubmissionByID(ctx, id)
	if err != nil {
		return Submission{}, err
	}
	if !actor.IsAdmin() && sub.SubmittedBy != actor.UID {
		return Submission{}, ErrPermissionDenied
	}
	return sub, nil
}

// UpdateStatus performs a review transition. Admin-only access is enforced
// at the route gate; the transition trusts its caller has been authorized.
func (svc *Service) UpdateStatus(ctx context.Context, actor identity.Principal, id string, su StatusUpdate) (Submission, error) {
	if !su.Status.Valid() {
		return Submission{}, core.NewValidationError(ErrInvalidStatus, core.FieldError{Field: "status", Error: ErrInvalidStatus.Error()})
	}

	rev := Review{
		Status:     su.Status,
		ReviewNote: su.ReviewNote,
		ReviewedBy: actor.UID,
		ReviewedAt: time.Now().UTC(),
	}
	sub, err := svc.repo.UpdateSubmissionStatus(ctx, id, rev)
	if err != nil {
		return Submission{}, err
	}

	svc.notifyReviewed(sub)
	return sub, nil
}

// Delete hard-deletes the record; terminal and unrecoverable.
// Attachment objects are left behind (no orphan cleanup).
func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteSubmission(ctx, id)
}

func (svc *Service) notifyReviewed(sub Submission) {
	if svc.mail == nil || sub.SubmitterEmail == "" {
		return
	}
	msg := &core.EmailMessage{
		To:      []mail.Address{{Address: sub.SubmitterEmail}},
		Subject: fmt.Sprintf("Your submission is %s", sub.Status),
		BodyStr: fmt.Sprintf(
			"Your paperwork submission (%s) has been reviewed.\n\nStatus: %s\nNote: %s\n",
			sub.ID, sub.Status, sub.ReviewNote,
		),
	}
	svc.mail.SendMessages(msg)
}

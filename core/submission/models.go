package submission

import (
	"io"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/karatasi/core"
)

// Status governs the review lifecycle of a submission.
type Status string

const (
	StatusPending  Status = "pending" // initial
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

var AllStatuses = []Status{StatusPending, StatusApproved, StatusRejected}

// Valid reports membership in the allowed status set. Transitions between
// any two members are legal (administrator-driven reassignments, not a
// one-way DAG); anything outside the set is rejected before any store
// mutation.
func (s Status) Valid() bool {
	for _, st := range AllStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// FileRef points at an uploaded attachment. It is owned exclusively by the
// Submission that references it and has no independent lifecycle.
type FileRef struct {
	Filename   string    `json:"filename"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploadedAt"` // UTC
}

type Submission struct {
	ID             string             `json:"id"`
	Fields         map[string]string  `json:"fields"`
	Files          map[string]FileRef `json:"files"`
	SubmittedBy    string             `json:"submittedBy"` // immutable; creating principal's uid
	SubmitterEmail string             `json:"submitterEmail"`
	Status         Status             `json:"status"`
	ReviewNote     string             `json:"reviewNote"`
	ReviewedBy     string             `json:"reviewedBy"`
	ReviewedAt     time.Time          `json:"reviewedAt"` // UTC
	CreatedAt      time.Time          `json:"createdAt"`  // UTC
	UpdatedAt      time.Time          `json:"updatedAt"`  // UTC; refreshed on every mutation
}

// Club returns the freeform field listings can filter on.
func (s Submission) Club() string {
	return s.Fields["club"]
}

// Upload is an inbound attachment binary; at most one per create call.
type Upload struct {
	FieldName   string
	Filename    string
	ContentType string
	Content     io.Reader
}

// StatusUpdate is a review transition request.
type StatusUpdate struct {
	Status     Status `json:"status" validate:"required"`
	ReviewNote string `json:"reviewNote"`
}

func (su *StatusUpdate) Validate(validate *validator.Validate) error {
	su.ReviewNote = core.CleanString(su.ReviewNote)
	if err := validate.Struct(su); err != nil {
		return err
	}
	if !su.Status.Valid() {
		return core.NewValidationError(ErrInvalidStatus, core.FieldError{Field: "status", Error: ErrInvalidStatus.Error()})
	}
	return nil
}

// Review is the audit stamp accompanying a status transition.
type Review struct {
	Status     Status
	ReviewNote string // empty string if omitted
	ReviewedBy string // acting administrator's uid
	ReviewedAt time.Time
}

// DefaultQueryLimit bounds listings when no limit is requested.
const DefaultQueryLimit = 50

// QueryFilter fields are conjunctive; an absent field means "no constraint",
// not "match empty".
type QueryFilter struct {
	Status string `query:"status"`
	Club   string `query:"club"`
	Limit  int    `query:"limit"`
}

func (qf *QueryFilter) Clean() {
	qf.Status = core.CleanString(qf.Status, true /* lower */)
	qf.Club = core.CleanString(qf.Club)
	if qf.Limit <= 0 {
		qf.Limit = DefaultQueryLimit
	}
}

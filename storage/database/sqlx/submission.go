package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/karatasi/core/submission"
)

type submissionRow struct {
	ID             string      `db:"id"`
	Fields         fieldsMap   `db:"fields"`
	Files          filesMap    `db:"files"`
	SubmittedBy    string      `db:"submitted_by"`
	SubmitterEmail string      `db:"submitter_email"`
	Status         string      `db:"status"`
	ReviewNote     null.String `db:"review_note"`
	ReviewedBy     null.String `db:"reviewed_by"`
	ReviewedAt     null.Time   `db:"reviewed_at"`
	CreatedAt      time.Time   `db:"created_at"`
	UpdatedAt      time.Time   `db:"updated_at"`
}

func (r submissionRow) model() submission.Submission {
	return submission.Submission{
		ID:             r.ID,
		Fields:         map[string]string(r.Fields),
		Files:          map[string]submission.FileRef(r.Files),
		SubmittedBy:    r.SubmittedBy,
		SubmitterEmail: r.SubmitterEmail,
		Status:         submission.Status(r.Status),
		ReviewNote:     r.ReviewNote.String,
		ReviewedBy:     r.ReviewedBy.String,
		ReviewedAt:     r.ReviewedAt.Time,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func newSubmissionRow(sub submission.Submission) submissionRow {
	return submissionRow{
		ID:             sub.ID,
		Fields:         fieldsMap(sub.Fields),
		Files:          filesMap(sub.Files),
		SubmittedBy:    sub.SubmittedBy,
		SubmitterEmail: sub.SubmitterEmail,
		Status:         string(sub.Status),
		ReviewNote:     null.NewString(sub.ReviewNote, sub.ReviewNote != ""),
		ReviewedBy:     null.NewString(sub.ReviewedBy, sub.ReviewedBy != ""),
		ReviewedAt:     null.NewTime(sub.ReviewedAt.UTC(), !sub.ReviewedAt.IsZero()),
		CreatedAt:      sub.CreatedAt.UTC(),
		UpdatedAt:      sub.UpdatedAt.UTC(),
	}
}

type submissionRepository struct {
	db *sqlx.DB
}

var _ submission.Repository = (*submissionRepository)(nil) // interface compliance check

func NewSubmissionRepository(db *sqlx.DB) *submissionRepository {
	return &submissionRepository{db: db}
}

// trapNoRowsErr maps psql "no rows" err to submission.ErrNotFound
func (repo submissionRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return submission.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo submissionRepository) CreateSubmission(ctx context.Context, sub submission.Submission) (submission.Submission, error) {
	sub.ID = uuid.New().String()
	row := newSubmissionRow(sub)

	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO submission (id, fields, files, submitted_by, submitter_email, status, review_note, reviewed_by, reviewed_at, created_at, updated_at)
		VALUES (:id, :fields, :files, :submitted_by, :submitter_email, :status, :review_note, :reviewed_by, :reviewed_at, :created_at, :updated_at)`,
		row,
	)
	if err != nil {
		return submission.Submission{}, errors.Wrap(err, "inserting submission")
	}
	return row.model(), nil
}

func (repo submissionRepository) FilterSubmissions(ctx context.Context, filter submission.QueryFilter) ([]submission.Submission, error) {
	conds := make([]string, 0, 2)
	args := make([]interface{}, 0, 3)

	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Club != "" {
		args = append(args, filter.Club)
		conds = append(conds, fmt.Sprintf("fields->>'club' = $%d", len(args)))
	}

	q := "SELECT * FROM submission"
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = submission.DefaultQueryLimit
	}
	args = append(args, limit)
	q += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	var rows []submissionRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "filtering submissions")
	}

	subs := make([]submission.Submission, 0, len(rows))
	for _, row := range rows {
		subs = append(subs, row.model())
	}
	return subs, nil
}

func (repo submissionRepository) GetSubmissionByID(ctx context.Context, id string) (submission.Submission, error) {
	var row submissionRow
	if err := repo.db.GetContext(ctx, &row, "SELECT * FROM submission WHERE id = $1", id); err != nil {
		return submission.Submission{}, repo.trapNoRowsErr(err, "getting submission")
	}
	return row.model(), nil
}

func (repo submissionRepository) UpdateSubmissionStatus(ctx context.Context, id string, rev submission.Review) (submission.Submission, error) {
	var row submissionRow
	err := repo.db.GetContext(ctx, &row, `
		UPDATE submission
		SET status = $1, review_note = $2, reviewed_by = $3, reviewed_at = $4, updated_at = $4
		WHERE id = $5
		RETURNING *`,
		string(rev.Status), rev.ReviewNote, rev.ReviewedBy, rev.ReviewedAt.UTC(), id,
	)
	if err != nil {
		return submission.Submission{}, repo.trapNoRowsErr(err, "updating submission status")
	}
	return row.model(), nil
}

func (repo submissionRepository) DeleteSubmission(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, "DELETE FROM submission WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "deleting submission")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return submission.ErrNotFound
	}
	return nil
}

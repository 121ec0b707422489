package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/karatasi/core/submission"
)

type submissionRepository struct {
	db *submissionTable
}

var _ submission.Repository = (*submissionRepository)(nil) // interface compliance check

func NewSubmissionRepository(db *DB) *submissionRepository {
	return &submissionRepository{db: db.submission}
}

func (repo *submissionRepository) query() []submission.Submission {
	subs := make([]submission.Submission, 0, len(repo.db.table))
	for _, sub := range repo.db.table {
		subs = append(subs, *sub)
	}
	return subs
}

func (repo *submissionRepository) CreateSubmission(ctx context.Context, sub submission.Submission) (submission.Submission, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	sub.ID = uuid.New().String()
	repo.db.table[sub.ID] = &sub
	return sub, nil
}

func (repo *submissionRepository) FilterSubmissions(ctx context.Context, filter submission.QueryFilter) ([]submission.Submission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	subs := repo.query()

	if filter.Status != "" {
		filtered := subs[:0]
		for _, sub := range subs {
			if string(sub.Status) == filter.Status {
				filtered = append(filtered, sub)
			}
		}
		subs = filtered
	}
	if filter.Club != "" {
		filtered := subs[:0]
		for _, sub := range subs {
			if sub.Club() == filter.Club {
				filtered = append(filtered, sub)
			}
		}
		subs = filtered
	}

	sort.Slice(subs, func(i, j int) bool { return subs[i].CreatedAt.After(subs[j].CreatedAt) })

	limit := filter.Limit
	if limit <= 0 {
		limit = submission.DefaultQueryLimit
	}
	if len(subs) > limit {
		subs = subs[:limit]
	}
	return subs, nil
}

func (repo *submissionRepository) GetSubmissionByID(ctx context.Context, id string) (submission.Submission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if sub, ok := repo.db.table[id]; ok {
		return *sub, nil
	}
	return submission.Submission{}, submission.ErrNotFound
}

func (repo *submissionRepository) UpdateSubmissionStatus(ctx context.Context, id string, rev submission.Review) (submission.Submission, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	sub, ok := repo.db.table[id]
	if !ok {
		return submission.Submission{}, submission.ErrNotFound
	}
	sub.Status = rev.Status
	sub.ReviewNote = rev.ReviewNote
	sub.ReviewedBy = rev.ReviewedBy
	sub.ReviewedAt = rev.ReviewedAt
	sub.UpdatedAt = rev.ReviewedAt
	return *sub, nil
}

func (repo *submissionRepository) DeleteSubmission(ctx context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return submission.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}

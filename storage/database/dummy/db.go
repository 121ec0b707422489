package dummydb

import (
	"sync"

	"github.com/trezcool/karatasi/core/identity"
	"github.com/trezcool/karatasi/core/submission"
)

type (
	DB struct {
		submission *submissionTable
		profile    *profileTable
		claim      *claimTable
	}

	submissionTable struct {
		sync.RWMutex
		table map[string]*submission.Submission
	}

	profileTable struct {
		sync.RWMutex
		table map[string]*identity.Profile
	}

	claimTable struct {
		sync.RWMutex
		table map[string]string // uid -> role
	}
)

func Open() (*DB, error) {
	db := &DB{
		submission: &submissionTable{table: make(map[string]*submission.Submission)},
		profile:    &profileTable{table: make(map[string]*identity.Profile)},
		claim:      &claimTable{table: make(map[string]string)},
	}
	return db, nil
}

package sqlxrepos

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/trezcool/karatasi/core/submission"
)

// JSONB column wrappers.

type fieldsMap map[string]string

func (m fieldsMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func (m *fieldsMap) Scan(src interface{}) error {
	return scanJSON(src, m)
}

type filesMap map[string]submission.FileRef

func (m filesMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func (m *filesMap) Scan(src interface{}) error {
	return scanJSON(src, m)
}

func scanJSON(src, dst interface{}) error {
	switch data := src.(type) {
	case nil:
		return nil
	case []byte:
		return errors.Wrap(json.Unmarshal(data, dst), "scanning jsonb")
	case string:
		return errors.Wrap(json.Unmarshal([]byte(data), dst), "scanning jsonb")
	default:
		return errors.Errorf("unsupported jsonb source type %T", src)
	}
}

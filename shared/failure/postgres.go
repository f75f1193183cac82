package failure

import (
	"errors"
	"fmt"
	"net/http"

	"inap/shared/constant"

	"github.com/lib/pq"
)

// FromPostgres maps constraint violations raised by Postgres onto the failure taxonomy.
// Any other error is returned unchanged.
func FromPostgres(err error, entity string) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch string(pqErr.Code) {
	case constant.PqErrorCodeUniqueViolation:
		return Conflict(fmt.Sprintf("%s already exists, retry with a fresh identifier", entity))
	case constant.PqErrorCodeFkViolation:
		return BadRequestFromString(fmt.Sprintf("%s references a record that does not exist", entity))
	default:
		return err
	}
}

// IsConflict reports whether err carries a conflict code.
func IsConflict(err error) bool {
	return GetCode(err) == http.StatusConflict
}

package repositories

import (
	"errors"
	"fmt"

	"bookclub/internal/apperr"

	"gorm.io/gorm"
)

// translate converts a GORM error into an apperr error for the named
// resource. The database must be opened with TranslateError enabled for
// unique violations to surface as gorm.ErrDuplicatedKey.
func translate(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound(resource)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Conflict(resource+" already exists", err)
	default:
		return apperr.Internal(fmt.Sprintf("%s storage failure", resource), err)
	}
}

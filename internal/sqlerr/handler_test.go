package sqlerr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/deppfellow/posts-api/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %T", err)
	return httpErr
}

func TestHandleErrorNotNullViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:       "23502",
		Severity:   "ERROR",
		Message:    `null value in column "title" violates not-null constraint`,
		TableName:  "posts",
		ColumnName: "title",
	}

	httpErr := asHTTPError(t, HandleError(fmt.Errorf("insert post: %w", pgErr)))

	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "POST_REQUIRED", httpErr.Code)
	assert.Equal(t, "The Title is required", httpErr.Message)
}

func TestHandleErrorUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23505",
		TableName:      "posts",
		ConstraintName: "posts_title_key",
	}

	httpErr := asHTTPError(t, HandleError(pgErr))

	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "POST_ALREADY_EXISTS", httpErr.Code)
	assert.Equal(t, "A Post with this Title already exists", httpErr.Message)
}

func TestHandleErrorUnknownPgError(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(&pgconn.PgError{Code: "XX000"}))
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
}

func TestHandleErrorNoRows(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(pgx.ErrNoRows))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
}

func TestHandleErrorContextCanceled(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(fmt.Errorf("query: %w", context.Canceled)))
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.Status)
}

func TestHandleErrorPassesHTTPErrorThrough(t *testing.T) {
	original := errs.NewPostNotFoundError(4)
	assert.Same(t, original, HandleError(original))
}

func TestHandleErrorUnknown(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(errors.New("boom")))
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
	assert.Equal(t, "Internal Server Error", httpErr.Message)
}

func TestErrCode(t *testing.T) {
	converted := ConvertPgError(&pgconn.PgError{Code: "23503", Severity: "ERROR"})

	assert.Equal(t, ForeignKeyViolation, ErrCode(fmt.Errorf("wrap: %w", converted)))
	assert.Equal(t, Other, ErrCode(errors.New("plain")))
	assert.Equal(t, SeverityError, converted.Severity)
}

func TestMapping(t *testing.T) {
	assert.Equal(t, UniqueViolation, MapCode("23505"))
	assert.Equal(t, Other, MapCode("99999"))
	assert.Equal(t, SeverityFatal, MapSeverity("FATAL"))
	assert.Equal(t, SeverityError, MapSeverity("whatever"))
}

func TestExtractColumnForUniqueViolation(t *testing.T) {
	assert.Equal(t, "title", extractColumnForUniqueViolation("unique_posts_title"))
	assert.Equal(t, "title", extractColumnForUniqueViolation("posts_title_key"))
	assert.Equal(t, "", extractColumnForUniqueViolation("posts_pkey"))
	assert.Equal(t, "", extractColumnForUniqueViolation(""))
}

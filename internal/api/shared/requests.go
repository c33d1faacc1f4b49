package shared

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

// MaxUploadBytes caps multipart submissions at 10 MB.
const MaxUploadBytes = 10 << 20

// ErrMissingFile is returned when a required multipart file field is
// absent from the request.
var ErrMissingFile = errors.New("file field missing from request")

// ReadFormFile reads the named multipart file field fully into
// memory. Callers must have a size limit applied via MaxBytesReader
// or ParseMultipartForm before calling.
func ReadFormFile(r *http.Request, field string) ([]byte, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, fmt.Errorf("%w: %s", ErrMissingFile, field)
		}
		return nil, fmt.Errorf("failed to open form file %q: %w", field, err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read form file %q: %w", field, err)
	}
	return data, nil
}

// FormInt64s parses every value of a repeated form field as int64.
func FormInt64s(r *http.Request, field string) ([]int64, error) {
	values := r.Form[field]
	if len(values) == 0 {
		return nil, nil
	}

	parsed := make([]int64, 0, len(values))
	for _, v := range values {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value %q", field, v)
		}
		parsed = append(parsed, n)
	}
	return parsed, nil
}

// OptionalFormValue returns a pointer to the form value, or nil when
// the field is empty or absent.
func OptionalFormValue(r *http.Request, field string) *string {
	v := r.FormValue(field)
	if v == "" {
		return nil
	}
	return &v
}

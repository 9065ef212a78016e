package service

import (
	"errors"
	"fmt"
)

var (
	ErrFailedValidation     = errors.New("failed validation")
	ErrRecordNotFound       = errors.New("record not found")
	ErrEditConflict         = errors.New("edit conflict")
	ErrNotPermitted         = errors.New("not permitted")
	ErrAlreadyRated         = errors.New("already rated")
	ErrBadRequest           = errors.New("bad request")
	ErrMissingFile          = errors.New("missing file")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrContentTooLarge      = errors.New("content too large")
	ErrProcessingFailed     = errors.New("image processing failed")
)

// failedValidation wraps ErrFailedValidation with the key and message of one
// entry from a validation error map, so callers can both match the sentinel
// and report the offending field.
func (s *service) failedValidation(errorMap map[string]string) error {
	for k, v := range errorMap {
		return fmt.Errorf("%w: %q %s", ErrFailedValidation, k, v)
	}
	return ErrFailedValidation
}

// Package errs wraps build failures with go-errors categories and text codes
// so the CLI can report which step failed.
package errs

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	ConfigInvalid      = "CONFIG_INVALID"
	DateRequired       = "DATE_REQUIRED"
	CacheDriverUnknown = "CACHE_DRIVER_UNKNOWN"

	SourceReadFailed  = "SOURCE_READ_FAILED"
	OutputWriteFailed = "OUTPUT_WRITE_FAILED"
	CacheFailed       = "CACHE_FAILED"
	IndexWriteFailed  = "INDEX_WRITE_FAILED"
	BuildCancelled    = "BUILD_CANCELLED"
)

// Validation wraps err as an input/configuration problem.
func Validation(err error, message, code string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, message).
		WithTextCode(code)
}

// Step wraps err as a failure of the named build step.
func Step(err error, message, code string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, message).
		WithTextCode(code)
}

// Cancelled wraps a context error raised between documents.
func Cancelled(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return Step(err, "build cancelled", BuildCancelled)
	}
	return Step(err, "build context error", BuildCancelled)
}

// IsValidation reports whether err was classified as a validation failure.
func IsValidation(err error) bool {
	return goerrors.IsCategory(err, goerrors.CategoryValidation)
}

// IsStep reports whether err was classified as a build step failure.
func IsStep(err error) bool {
	return goerrors.IsCategory(err, goerrors.CategoryCommand)
}

// Code returns the text code attached to err, or "" when it carries none.
func Code(err error) string {
	var e *goerrors.Error
	if goerrors.As(err, &e) {
		return e.TextCode
	}
	return ""
}

package models

import (
	"context"
	"errors"
	"fmt"

	dErrors "namescreen/pkg/domain-errors"
)

// ErrorKind classifies screening failures.
type ErrorKind string

const (
	KindInvalidName         ErrorKind = "invalid_name"
	KindUnsupportedLanguage ErrorKind = "unsupported_language"
	KindRetrieval           ErrorKind = "retrieval"
	KindScoring             ErrorKind = "scoring"
	KindInvalidThreshold    ErrorKind = "invalid_threshold"
	KindInvalidRequest      ErrorKind = "invalid_request"
	KindCanceled            ErrorKind = "canceled"
)

// ScreeningError is a stage-tagged pipeline failure.
type ScreeningError struct {
	Stage   Stage
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ScreeningError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Stage, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ScreeningError) Unwrap() error { return e.Err }

// DomainCode maps the kind onto the shared error codes used by transports.
func (e *ScreeningError) DomainCode() dErrors.Code {
	switch e.Kind {
	case KindInvalidName, KindInvalidThreshold, KindInvalidRequest:
		return dErrors.CodeValidation
	case KindUnsupportedLanguage:
		return dErrors.CodeUnsupported
	case KindRetrieval:
		return dErrors.CodeUnavailable
	case KindCanceled:
		if errors.Is(e.Err, context.DeadlineExceeded) {
			return dErrors.CodeTimeout
		}
		return dErrors.CodeCanceled
	}
	return dErrors.CodeInternal
}

func InvalidName(msg string) *ScreeningError {
	return &ScreeningError{Stage: StageNormalize, Kind: KindInvalidName, Message: msg}
}

func UnsupportedLanguage(lang string, cause error) *ScreeningError {
	return &ScreeningError{
		Stage:   StageLanguage,
		Kind:    KindUnsupportedLanguage,
		Message: fmt.Sprintf("language %q is not supported", lang),
		Err:     cause,
	}
}

func Retrieval(cause error) *ScreeningError {
	return &ScreeningError{Stage: StageRetrieve, Kind: KindRetrieval, Message: "candidate retrieval failed", Err: cause}
}

// Scoring tags a single candidate's failure; the batch continues.
func Scoring(candidateID string, cause error) *ScreeningError {
	return &ScreeningError{
		Stage:   StageScore,
		Kind:    KindScoring,
		Message: fmt.Sprintf("scoring candidate %s failed", candidateID),
		Err:     cause,
	}
}

func InvalidThreshold(msg string) *ScreeningError {
	return &ScreeningError{Stage: StageRequest, Kind: KindInvalidThreshold, Message: msg}
}

func InvalidRequest(msg string) *ScreeningError {
	return &ScreeningError{Stage: StageRequest, Kind: KindInvalidRequest, Message: msg}
}

func Canceled(stage Stage, cause error) *ScreeningError {
	return &ScreeningError{Stage: stage, Kind: KindCanceled, Message: "request canceled", Err: cause}
}

// AsScreeningError extracts a ScreeningError from err's chain.
func AsScreeningError(err error) (*ScreeningError, bool) {
	var se *ScreeningError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsKind reports whether err carries a ScreeningError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	se, ok := AsScreeningError(err)
	return ok && se.Kind == kind
}

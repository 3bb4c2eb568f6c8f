package handler

import (
	"strings"
	"unicode/utf8"

	"namescreen/internal/screening/models"
	dErrors "namescreen/pkg/domain-errors"
)

const maxNameLength = 512

// ScreenRequest is the HTTP request body for POST /v1/screen.
type ScreenRequest struct {
	Name           string   `json:"name"`
	Type           string   `json:"type"`
	Threshold      *float64 `json:"threshold"`
	ThresholdScale string   `json:"threshold_scale,omitempty"`
	Mode           string   `json:"mode,omitempty"`

	// Parsed values (populated by Validate)
	parsedType  models.RecordType
	parsedScale models.ThresholdScale
	parsedMode  models.LanguageMode
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *ScreenRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	// Size validation (fail fast)
	if utf8.RuneCountInString(r.Name) > maxNameLength {
		return dErrors.New(dErrors.CodeValidation, "name must be at most 512 characters")
	}

	// Required fields
	if strings.TrimSpace(r.Name) == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(r.Type) == "" {
		return dErrors.New(dErrors.CodeValidation, "type is required")
	}
	if r.Threshold == nil {
		return dErrors.New(dErrors.CodeValidation, "threshold is required")
	}

	recordType, err := models.ParseRecordType(r.Type)
	if err != nil {
		return err
	}
	r.parsedType = recordType

	scale, err := models.ParseThresholdScale(r.ThresholdScale)
	if err != nil {
		return err
	}
	r.parsedScale = scale

	// Empty mode defers to the service default.
	mode, err := models.ParseLanguageMode(r.Mode, "")
	if err != nil {
		return err
	}
	r.parsedMode = mode

	return nil
}

// ToModel builds the domain request. Call only after Validate succeeded.
func (r *ScreenRequest) ToModel(requestID string) models.ScreeningRequest {
	return models.ScreeningRequest{
		RequestID: requestID,
		Name:      r.Name,
		Type:      r.parsedType,
		Threshold: models.Threshold{Value: *r.Threshold, Scale: r.parsedScale},
		Mode:      r.parsedMode,
	}
}

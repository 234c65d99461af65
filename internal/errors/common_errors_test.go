package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	cause := fmt.Errorf("unterminated quote")
	err := NewIngestionError("orders", "could not parse orders", cause)

	assert.Equal(t, "[INGESTION] could not parse orders: unterminated quote", err.Error())
	assert.Equal(t, "orders", err.Context["source"])
	assert.True(t, stderrors.Is(err, cause))

	wrapped := fmt.Errorf("load: %w", err)
	assert.True(t, IsType(wrapped, ErrTypeIngestion))
	assert.False(t, IsType(wrapped, ErrTypeAnalysis))
	assert.False(t, IsType(cause, ErrTypeIngestion))
}

func TestAppErrorWithoutCause(t *testing.T) {
	err := NewNotFoundError("report")
	assert.Equal(t, "[NOT_FOUND] report not found", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestStatusForType(t *testing.T) {
	tests := map[ErrorType]int{
		ErrTypeIngestion:  http.StatusUnprocessableEntity,
		ErrTypeValidation: http.StatusBadRequest,
		ErrTypeAnalysis:   http.StatusInternalServerError,
		ErrTypeNotFound:   http.StatusNotFound,
		ErrTypeRemote:     http.StatusBadGateway,
		ErrTypeConfig:     http.StatusInternalServerError,
	}
	for typ, want := range tests {
		assert.Equal(t, want, StatusForType(typ), string(typ))
	}
}

func TestValidationErrors(t *testing.T) {
	err := NewValidationErrors([]ValidationError{{Field: "revenue", Message: "must be >= 0"}})
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", err.ErrorCode)
	details, ok := err.Details.(ValidationErrors)
	if assert.True(t, ok) {
		assert.Len(t, details.Errors, 1)
	}
}

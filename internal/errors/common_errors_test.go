package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "with cause",
			err:      NewInvalidInputError("malformed CSV in tracks.csv", fmt.Errorf("bare quote")),
			expected: "[INVALID_INPUT] malformed CSV in tracks.csv: bare quote",
		},
		{
			name:     "without cause",
			err:      NewNotFoundError("column energy"),
			expected: "[NOT_FOUND] column energy not found",
		},
		{
			name:     "io error",
			err:      NewIOError("create data/clean.csv", fmt.Errorf("permission denied")),
			expected: "[IO] create data/clean.csv: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := NewIOError("write failed", cause)

	assert.True(t, errors.Is(err, cause))

	wrapped := fmt.Errorf("save: %w", err)
	var appErr *AppError
	require.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, ErrTypeIO, appErr.Type)
}

func TestAppError_WithContext(t *testing.T) {
	err := NewInvalidInputError("bad row", nil).
		WithContext("line", 4).
		WithContext("source", "tracks.csv")

	assert.Equal(t, 4, err.Context["line"])
	assert.Equal(t, "tracks.csv", err.Context["source"])

	bare := &AppError{Type: ErrTypeIO}
	bare.WithContext("path", "x")
	assert.Equal(t, "x", bare.Context["path"])
}

func TestTypePredicates(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantType  ErrorType
		invalidIn bool
		ioErr     bool
	}{
		{"invalid input", NewInvalidInputError("x", nil), ErrTypeInvalidInput, true, false},
		{"wrapped invalid input", fmt.Errorf("load: %w", NewInvalidInputError("x", nil)), ErrTypeInvalidInput, true, false},
		{"io", NewIOError("x", nil), ErrTypeIO, false, true},
		{"config", NewConfigError("x", nil), ErrTypeConfig, false, false},
		{"plain", errors.New("x"), "", false, false},
		{"nil", nil, "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, TypeOf(tt.err))
			assert.Equal(t, tt.invalidIn, IsInvalidInput(tt.err))
			assert.Equal(t, tt.ioErr, IsIOError(tt.err))
		})
	}
}

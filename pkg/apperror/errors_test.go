package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	e := New("VAL_001", "bad input", http.StatusBadRequest)
	assert.Equal(t, "[VAL_001] bad input", e.Error())

	wrapped := Wrap("STORE_001", "save failed", http.StatusInternalServerError, errors.New("conn refused"))
	assert.Equal(t, "[STORE_001] save failed: conn refused", wrapped.Error())
}

func TestAppError_Unwrap(t *testing.T) {
	inner := errors.New("inner")
	e := ErrPersistence(inner)
	assert.True(t, errors.Is(e, inner))
}

func TestAppError_AsFromWrappedChain(t *testing.T) {
	err := fmt.Errorf("handling request: %w", ErrTooManyAttempts())

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "THR_001", appErr.Code)
	assert.Equal(t, http.StatusTooManyRequests, appErr.HTTPStatus)
}

func TestErrInsufficientBalance_IncludesRequiredTotal(t *testing.T) {
	e := ErrInsufficientBalance(0.00021, "BTC")
	assert.Contains(t, e.Message, "0.00021")
	assert.Contains(t, e.Message, "BTC")
}

func TestErrCooldownActive_ReportsSeconds(t *testing.T) {
	e := ErrCooldownActive(42 * time.Second)
	assert.Contains(t, e.Message, "42")
}

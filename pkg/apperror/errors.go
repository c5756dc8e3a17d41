package apperror

import (
	"fmt"
	"net/http"
	"time"
)

// AppError is a structured error that maps to HTTP responses. No error in
// the wallet flows is fatal; every path returns control to the caller with a
// human-readable message.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Validation (VAL) ----
// Malformed input: recovered locally, surfaced as a field-level message,
// no state change.

func ErrInvalidEmail() *AppError {
	return New("VAL_001", "Please enter a valid email address", http.StatusBadRequest)
}

func ErrIncompleteCode() *AppError {
	return New("VAL_002", "Please enter the complete 6-digit code", http.StatusBadRequest)
}

func ErrWeakPassword(reason string) *AppError {
	return New("VAL_003", reason, http.StatusBadRequest)
}

func ErrPasswordMismatch() *AppError {
	return New("VAL_004", "Passwords do not match", http.StatusBadRequest)
}

func ErrPhraseMismatch() *AppError {
	return New("VAL_005", "Seed phrase does not match", http.StatusBadRequest)
}

func ErrPhraseNotAcknowledged() *AppError {
	return New("VAL_006", "Please confirm you have saved your seed phrase", http.StatusBadRequest)
}

func ErrInvalidAmount() *AppError {
	return New("VAL_007", "Please enter a valid amount", http.StatusBadRequest)
}

func ErrMissingRecipient() *AppError {
	return New("VAL_008", "Please enter recipient address", http.StatusBadRequest)
}

func ErrSameAccountTransfer() *AppError {
	return New("VAL_009", "Cannot transfer to the same account", http.StatusBadRequest)
}

func Validation(message string) *AppError {
	return New("VAL_000", message, http.StatusBadRequest)
}

// ---- Verification codes (CODE) ----

func ErrCodeExpired() *AppError {
	return New("CODE_001", "Code has expired. Please request a new one.", http.StatusUnauthorized)
}

func ErrCodeMismatch() *AppError {
	return New("CODE_002", "Incorrect code. Please try again.", http.StatusUnauthorized)
}

func ErrCodeNotRequested() *AppError {
	return New("CODE_003", "No code has been requested. Request a code first.", http.StatusBadRequest)
}

func ErrCooldownActive(remaining time.Duration) *AppError {
	return New("CODE_004",
		fmt.Sprintf("Please wait %d seconds before requesting another code", int(remaining.Seconds())),
		http.StatusTooManyRequests)
}

// ---- Attempt throttle (THR) ----

func ErrTooManyAttempts() *AppError {
	return New("THR_001", "Too many attempts. Try again later.", http.StatusTooManyRequests)
}

// ---- Funds (FUNDS) ----

func ErrInsufficientBalance(required float64, currency string) *AppError {
	return New("FUNDS_001",
		fmt.Sprintf("Insufficient balance. Need %g %s", required, currency),
		http.StatusPaymentRequired)
}

// ---- Flow state (FLOW) ----

func ErrWrongState(expected string) *AppError {
	return New("FLOW_001", fmt.Sprintf("Operation not allowed; expected %s step", expected), http.StatusConflict)
}

func ErrSessionExpired() *AppError {
	return New("FLOW_002", "Session expired. Please log in again.", http.StatusUnauthorized)
}

func ErrConfirmationDeclined() *AppError {
	return New("FLOW_003", "Transaction not confirmed", http.StatusBadRequest)
}

// ---- Delivery (MAIL) ----

func ErrDeliveryFailed(err error) *AppError {
	return Wrap("MAIL_001", "Failed to send code. Please try again.", http.StatusBadGateway, err)
}

// ---- Persistence (STORE) ----

func ErrPersistence(err error) *AppError {
	return Wrap("STORE_001", "Storage operation failed", http.StatusInternalServerError, err)
}

// ---- System (SYS) ----

func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

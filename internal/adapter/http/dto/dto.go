package dto

// RequestOTPRequest is the request body for requesting a verification code.
type RequestOTPRequest struct {
	Email string `json:"email" binding:"required,max=254"`
}

// VerifyOTPRequest is the request body for submitting the verification code.
type VerifyOTPRequest struct {
	Code string `json:"code" binding:"required,len=6"`
}

// SetPasswordRequest is the request body for the password step.
type SetPasswordRequest struct {
	Password string `json:"password" binding:"required,max=128"`
	Confirm  string `json:"confirm" binding:"required,max=128"`
}

// ConfirmPhraseRequest is the request body for seed phrase confirmation.
type ConfirmPhraseRequest struct {
	Phrase       string `json:"phrase" binding:"required"`
	Acknowledged bool   `json:"acknowledged"`
}

// SendCodeRequest is the request body for requesting a send authorization code.
type SendCodeRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// SendPaymentRequest is the request body for an outgoing payment.
type SendPaymentRequest struct {
	Recipient string  `json:"recipient" binding:"required,max=128"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
	Currency  string  `json:"currency" binding:"required,currency"`
	Code      string  `json:"code" binding:"required,len=4"`
	Confirmed bool    `json:"confirmed"`
}

// TransferRequest is the request body for an internal account transfer.
type TransferRequest struct {
	FromAccount string  `json:"from_account" binding:"required,max=50"`
	ToAccount   string  `json:"to_account" binding:"required,max=50"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Currency    string  `json:"currency" binding:"required,currency"`
	Note        string  `json:"note,omitempty" binding:"max=200"`
}

// StateResponse reports the onboarding state after a flow step.
type StateResponse struct {
	State           string `json:"state"`
	CooldownSeconds int    `json:"cooldown_seconds,omitempty"`
}

// SessionResponse is returned when onboarding reaches the active state.
type SessionResponse struct {
	State       string `json:"state"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	Token       string `json:"token"`
	TokenExpiry int64  `json:"token_expiry"` // Unix timestamp
}

// PhraseResponse carries the recovery phrase awaiting confirmation.
type PhraseResponse struct {
	Phrase []string `json:"phrase"`
}

// TransactionResponse is the response body for a committed transaction.
type TransactionResponse struct {
	ID        string  `json:"id"`
	Kind      string  `json:"kind"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	Timestamp string  `json:"timestamp"`
	Status    string  `json:"status"`
	Fee       float64 `json:"fee"`
	Note      string  `json:"note,omitempty"`
}

// TransactionListResponse wraps a filtered ledger listing.
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Total        int                   `json:"total"`
}

// ReceiveResponse carries a receive address with its QR rendering.
type ReceiveResponse struct {
	Currency string      `json:"currency"`
	Address  string      `json:"address"`
	Payload  interface{} `json:"payload"`
	QRImage  string      `json:"qr_image"` // base64 PNG
}

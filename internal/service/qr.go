package service

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"secure-wallet/internal/core/domain"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

const (
	receiveRequestTTL = 600 * time.Second
	paymentRequestTTL = 300 * time.Second
	qrImageSize       = 256
)

// QRRecipient identifies the requesting wallet in a QR payload.
type QRRecipient struct {
	Name          string `json:"name"`
	WalletAddress string `json:"wallet_address"`
}

// QRTransaction describes what is being requested.
type QRTransaction struct {
	Amount      float64 `json:"amount,omitempty"`
	Currency    string  `json:"currency"`
	Type        string  `json:"type"` // receive, payment_request
	OrderID     string  `json:"order_id"`
	Description string  `json:"description"`
}

// QRSecurity carries the anti-replay fields of a QR payload.
type QRSecurity struct {
	Timestamp time.Time `json:"timestamp"`
	Token     string    `json:"token"`
	ExpiresIn int       `json:"expires_in"` // seconds
}

// QRPayload is the JSON document encoded into a payment-request QR code.
type QRPayload struct {
	Recipient   QRRecipient   `json:"recipient"`
	Transaction QRTransaction `json:"transaction"`
	Security    QRSecurity    `json:"security"`
}

// QRService renders payment-request QR codes for the receive flow. It is a
// pure display collaborator; it only reads the session record.
type QRService struct {
	now func() time.Time
}

// NewQRService creates a QRService.
func NewQRService() *QRService {
	return &QRService{now: time.Now}
}

// BuildReceiveRequest constructs the payload for a plain receive-address QR
// (no amount). The nonce makes every rendered code unique.
func (s *QRService) BuildReceiveRequest(email, address string, currency domain.Currency) QRPayload {
	nonce := uuid.NewString()
	return QRPayload{
		Recipient: QRRecipient{Name: email, WalletAddress: address},
		Transaction: QRTransaction{
			Currency:    string(currency),
			Type:        "receive",
			OrderID:     "RCV-" + nonce,
			Description: "Receive request via SecureWallet",
		},
		Security: QRSecurity{
			Timestamp: s.now().UTC(),
			Token:     nonce,
			ExpiresIn: int(receiveRequestTTL.Seconds()),
		},
	}
}

// BuildPaymentRequest constructs the payload for an amount-bearing payment
// request QR.
func (s *QRService) BuildPaymentRequest(email, address string, currency domain.Currency, amount float64) QRPayload {
	nonce := uuid.NewString()
	return QRPayload{
		Recipient: QRRecipient{Name: email, WalletAddress: address},
		Transaction: QRTransaction{
			Amount:      amount,
			Currency:    string(currency),
			Type:        "payment_request",
			OrderID:     "REQ-" + nonce,
			Description: "Payment requested via SecureWallet",
		},
		Security: QRSecurity{
			Timestamp: s.now().UTC(),
			Token:     nonce,
			ExpiresIn: int(paymentRequestTTL.Seconds()),
		},
	}
}

// EncodePNG renders the payload as a PNG QR image, base64-encoded for
// transport to the display layer.
func (s *QRService) EncodePNG(payload QRPayload) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal qr payload: %w", err)
	}

	png, err := qrcode.Encode(string(data), qrcode.Medium, qrImageSize)
	if err != nil {
		return "", fmt.Errorf("encode qr image: %w", err)
	}

	return base64.StdEncoding.EncodeToString(png), nil
}

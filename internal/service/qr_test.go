package service

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"secure-wallet/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQRService_BuildReceiveRequest(t *testing.T) {
	svc := NewQRService()
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }

	payload := svc.BuildReceiveRequest("alice@example.com", "bc1qaddr", domain.CurrencyBTC)

	assert.Equal(t, "alice@example.com", payload.Recipient.Name)
	assert.Equal(t, "bc1qaddr", payload.Recipient.WalletAddress)
	assert.Equal(t, "receive", payload.Transaction.Type)
	assert.Equal(t, "BTC", payload.Transaction.Currency)
	assert.Zero(t, payload.Transaction.Amount)
	assert.True(t, strings.HasPrefix(payload.Transaction.OrderID, "RCV-"))
	assert.Equal(t, 600, payload.Security.ExpiresIn)
	assert.NotEmpty(t, payload.Security.Token)
}

func TestQRService_BuildPaymentRequest(t *testing.T) {
	svc := NewQRService()

	payload := svc.BuildPaymentRequest("alice@example.com", "0xaddr", domain.CurrencyETH, 1.5)

	assert.Equal(t, "payment_request", payload.Transaction.Type)
	assert.InDelta(t, 1.5, payload.Transaction.Amount, 1e-12)
	assert.True(t, strings.HasPrefix(payload.Transaction.OrderID, "REQ-"))
	assert.Equal(t, 300, payload.Security.ExpiresIn)
}

func TestQRService_PayloadsAreUnique(t *testing.T) {
	svc := NewQRService()
	a := svc.BuildReceiveRequest("alice@example.com", "bc1qaddr", domain.CurrencyBTC)
	b := svc.BuildReceiveRequest("alice@example.com", "bc1qaddr", domain.CurrencyBTC)
	assert.NotEqual(t, a.Security.Token, b.Security.Token)
	assert.NotEqual(t, a.Transaction.OrderID, b.Transaction.OrderID)
}

func TestQRService_EncodePNG(t *testing.T) {
	svc := NewQRService()
	payload := svc.BuildReceiveRequest("alice@example.com", "bc1qaddr", domain.CurrencyBTC)

	encoded, err := svc.EncodePNG(payload)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	// PNG signature
	require.Greater(t, len(raw), 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, raw[:4])
}

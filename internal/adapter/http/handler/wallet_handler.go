package handler

import (
	"strconv"
	"time"

	"secure-wallet/internal/adapter/http/dto"
	"secure-wallet/internal/core/domain"
	"secure-wallet/internal/service"
	"secure-wallet/pkg/apperror"
	"secure-wallet/pkg/response"

	"github.com/gin-gonic/gin"
)

// WalletHandler handles the authenticated wallet endpoints.
type WalletHandler struct {
	state    *AppState
	qr       *service.QRService
	degraded func() bool
}

// NewWalletHandler creates a new WalletHandler. degraded reports whether
// persistence currently runs on the local fallback; nil means never.
func NewWalletHandler(state *AppState, qr *service.QRService, degraded func() bool) *WalletHandler {
	if degraded == nil {
		degraded = func() bool { return false }
	}
	return &WalletHandler{state: state, qr: qr, degraded: degraded}
}

// Overview handles GET /api/v1/wallet/overview.
func (h *WalletHandler) Overview(c *gin.Context) {
	h.state.mu.Lock()
	defer h.state.mu.Unlock()

	wallet, err := h.wallet()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OKDegraded(c, wallet.Overview(), h.degraded())
}

// RequestSendCode handles POST /api/v1/wallet/send/code.
func (h *WalletHandler) RequestSendCode(c *gin.Context) {
	var req dto.SendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrInvalidAmount())
		return
	}

	h.state.mu.Lock()
	defer h.state.mu.Unlock()

	wallet, err := h.wallet()
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := wallet.RequestSendCode(c.Request.Context(), req.Amount); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{
		"expires_in": int(wallet.SendCodeRemaining().Seconds()),
	})
}

// Send handles POST /api/v1/wallet/send.
func (h *WalletHandler) Send(c *gin.Context) {
	var req dto.SendPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	currency, err := domain.ParseCurrency(req.Currency)
	if err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	h.state.mu.Lock()
	defer h.state.mu.Unlock()

	wallet, err := h.wallet()
	if err != nil {
		response.Error(c, err)
		return
	}

	tx, err := wallet.Send(c.Request.Context(), service.SendRequest{
		Recipient: req.Recipient,
		Amount:    req.Amount,
		Currency:  currency,
		Code:      req.Code,
		Confirmed: req.Confirmed,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OKDegraded(c, toTransactionDTO(tx), h.degraded())
}

// Transfer handles POST /api/v1/wallet/transfer.
func (h *WalletHandler) Transfer(c *gin.Context) {
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	currency, err := domain.ParseCurrency(req.Currency)
	if err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	h.state.mu.Lock()
	defer h.state.mu.Unlock()

	wallet, err := h.wallet()
	if err != nil {
		response.Error(c, err)
		return
	}

	tx, err := wallet.Transfer(c.Request.Context(), service.TransferRequest{
		FromAccount: req.FromAccount,
		ToAccount:   req.ToAccount,
		Amount:      req.Amount,
		Currency:    currency,
		Note:        req.Note,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OKDegraded(c, toTransactionDTO(tx), h.degraded())
}

// History handles GET /api/v1/wallet/transactions?kind=sent&search=term.
func (h *WalletHandler) History(c *gin.Context) {
	kind := c.Query("kind")
	search := c.Query("search")

	h.state.mu.Lock()
	defer h.state.mu.Unlock()

	wallet, err := h.wallet()
	if err != nil {
		response.Error(c, err)
		return
	}

	txs := wallet.History(kind, search)
	list := make([]dto.TransactionResponse, 0, len(txs))
	for i := range txs {
		list = append(list, toTransactionDTO(&txs[i]))
	}
	response.OK(c, dto.TransactionListResponse{Transactions: list, Total: len(list)})
}

// Receive handles GET /api/v1/wallet/receive/:currency?amount=0.5, returning
// the receive address with its QR payload. A positive amount turns the code
// into a payment request.
func (h *WalletHandler) Receive(c *gin.Context) {
	currency, err := domain.ParseCurrency(c.Param("currency"))
	if err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	var amount float64
	if raw := c.Query("amount"); raw != "" {
		amount, err = strconv.ParseFloat(raw, 64)
		if err != nil || amount <= 0 {
			response.Error(c, apperror.ErrInvalidAmount())
			return
		}
	}

	h.state.mu.Lock()
	defer h.state.mu.Unlock()

	wallet, err := h.wallet()
	if err != nil {
		response.Error(c, err)
		return
	}

	email := wallet.Session().Identity.Email
	address := wallet.ReceiveAddress(currency)

	var payload service.QRPayload
	if amount > 0 {
		payload = h.qr.BuildPaymentRequest(email, address, currency, amount)
	} else {
		payload = h.qr.BuildReceiveRequest(email, address, currency)
	}

	image, err := h.qr.EncodePNG(payload)
	if err != nil {
		response.Error(c, apperror.InternalError(err))
		return
	}

	response.OK(c, dto.ReceiveResponse{
		Currency: string(currency),
		Address:  address,
		Payload:  payload,
		QRImage:  image,
	})
}

// wallet returns the active gate. Caller holds the state lock.
func (h *WalletHandler) wallet() (*service.Wallet, error) {
	if h.state.wallet == nil {
		return nil, apperror.ErrSessionExpired()
	}
	return h.state.wallet, nil
}

func toTransactionDTO(tx *domain.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:        tx.ID,
		Kind:      string(tx.Kind),
		Amount:    tx.Amount,
		Currency:  string(tx.Currency),
		From:      tx.From,
		To:        tx.To,
		Timestamp: tx.Timestamp.UTC().Format(time.RFC3339),
		Status:    string(tx.Status),
		Fee:       tx.Fee,
		Note:      tx.Note,
	}
}

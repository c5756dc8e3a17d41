package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"secure-wallet/internal/core/domain"
	"secure-wallet/internal/core/ports"
	"secure-wallet/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// WalletConfig carries the send-flow tunables and asset tables.
type WalletConfig struct {
	SendCodeTTL time.Duration
	Fees        domain.FeeTable
	Prices      domain.PriceTable
	Addresses   map[domain.Currency]string
}

// SendRequest holds validated input for an outgoing payment.
type SendRequest struct {
	Recipient string
	Amount    float64
	Currency  domain.Currency
	Code      string
	Confirmed bool
}

// TransferRequest holds input for an internal account transfer.
type TransferRequest struct {
	FromAccount string
	ToAccount   string
	Amount      float64
	Currency    domain.Currency
	Note        string
}

// Overview is the read-side balance summary for display collaborators.
type Overview struct {
	Email    string                             `json:"email"`
	Address  string                             `json:"address"`
	Balances map[domain.Currency]domain.Balance `json:"balances"`
	Total    float64                            `json:"total_reference_value"`
}

// Wallet is the transaction authorization gate over an active session.
// Send is a guarded sequential pipeline, re-entrant per attempt: a failure
// at any gate aborts without mutating balances or the ledger. The wallet
// owns the pending send-code challenge, independent of the onboarding OTP.
type Wallet struct {
	session *domain.Session
	ledger  ports.TransactionRepository
	mailer  ports.Mailer
	codes   ports.CodeGenerator
	cfg     WalletConfig
	log     zerolog.Logger
	now     func() time.Time

	sendCode *domain.Challenge
}

// NewWallet creates the gate over a session produced by onboarding.
func NewWallet(
	session *domain.Session,
	ledger ports.TransactionRepository,
	mailer ports.Mailer,
	codes ports.CodeGenerator,
	cfg WalletConfig,
	log zerolog.Logger,
) *Wallet {
	return &Wallet{
		session: session,
		ledger:  ledger,
		mailer:  mailer,
		codes:   codes,
		cfg:     cfg,
		log:     log,
		now:     time.Now,
	}
}

// RequestSendCode issues the 4-letter authorization code for a pending send.
// The amount is validated up front so a code is never issued for an input
// the commit would reject anyway. Delivery failure invalidates the code.
func (w *Wallet) RequestSendCode(ctx context.Context, amount float64) error {
	if err := w.checkSession(); err != nil {
		return err
	}
	if amount <= 0 {
		return apperror.ErrInvalidAmount()
	}

	challenge := domain.NewChallenge(w.codes.AlphaCode(), w.now(), w.cfg.SendCodeTTL)

	if err := w.mailer.SendCode(ctx, w.session.Identity.Email, challenge.Code); err != nil {
		w.sendCode = nil
		w.log.Error().Err(err).Msg("send-code delivery failed")
		return apperror.ErrDeliveryFailed(err)
	}

	w.sendCode = challenge
	w.log.Info().Time("expires_at", challenge.ExpiresAt).Msg("send-code issued")
	return nil
}

// SendCodeRemaining reports the validity left on the pending send-code,
// zero when none is outstanding. For UI countdown display only.
func (w *Wallet) SendCodeRemaining() time.Duration {
	if w.sendCode == nil {
		return 0
	}
	return w.sendCode.Remaining(w.now())
}

// Send runs the authorization pipeline and, if every gate passes, commits:
// debit, reference-value recompute, ledger prepend and persistence. No gate
// failure leaves any partial mutation behind.
func (w *Wallet) Send(ctx context.Context, req SendRequest) (*domain.Transaction, error) {
	// Gate 1: session
	if err := w.checkSession(); err != nil {
		return nil, err
	}

	// Gate 2: input
	if strings.TrimSpace(req.Recipient) == "" {
		return nil, apperror.ErrMissingRecipient()
	}
	if req.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	// Gate 3+4: fee and sufficiency
	fee := w.cfg.Fees.Fee(req.Currency)
	total := req.Amount + fee
	if total > w.session.Balance(req.Currency).Amount {
		return nil, apperror.ErrInsufficientBalance(total, string(req.Currency))
	}

	// Gate 5: explicit confirmation
	if !req.Confirmed {
		return nil, apperror.ErrConfirmationDeclined()
	}

	// Gate 6: send-code verification
	if w.sendCode == nil {
		return nil, apperror.ErrCodeNotRequested()
	}
	if w.sendCode.Expired(w.now()) {
		w.sendCode = nil
		return nil, apperror.ErrCodeExpired()
	}
	if !w.sendCode.Matches(req.Code) {
		return nil, apperror.ErrCodeMismatch()
	}

	// Gate 7: commit
	if err := w.session.Debit(req.Currency, total, w.cfg.Prices); err != nil {
		return nil, apperror.ErrInsufficientBalance(total, string(req.Currency))
	}
	w.sendCode = nil

	tx := domain.Transaction{
		ID:        "tx_" + uuid.NewString(),
		Kind:      domain.TransactionKindSent,
		Amount:    req.Amount,
		Currency:  req.Currency,
		From:      w.ReceiveAddress(req.Currency),
		To:        req.Recipient,
		Timestamp: w.now().UTC(),
		Status:    domain.TransactionStatusConfirmed,
		Fee:       fee,
	}
	w.session.Prepend(tx)
	w.persist(ctx, &tx)

	w.log.Info().
		Str("tx_id", tx.ID).
		Str("currency", string(tx.Currency)).
		Float64("amount", tx.Amount).
		Float64("fee", tx.Fee).
		Msg("payment sent")
	return &tx, nil
}

// Transfer moves funds between the user's own accounts: validation, balance
// check and commit only. No code challenge, no network fee.
func (w *Wallet) Transfer(ctx context.Context, req TransferRequest) (*domain.Transaction, error) {
	if err := w.checkSession(); err != nil {
		return nil, err
	}
	if req.FromAccount == req.ToAccount {
		return nil, apperror.ErrSameAccountTransfer()
	}
	if req.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}
	if req.Amount > w.session.Balance(req.Currency).Amount {
		return nil, apperror.ErrInsufficientBalance(req.Amount, string(req.Currency))
	}

	if err := w.session.Debit(req.Currency, req.Amount, w.cfg.Prices); err != nil {
		return nil, apperror.ErrInsufficientBalance(req.Amount, string(req.Currency))
	}

	tx := domain.Transaction{
		ID:        "tx_" + uuid.NewString(),
		Kind:      domain.TransactionKindTransfer,
		Amount:    req.Amount,
		Currency:  req.Currency,
		From:      req.FromAccount + " Account",
		To:        req.ToAccount + " Account",
		Timestamp: w.now().UTC(),
		Status:    domain.TransactionStatusConfirmed,
		Note:      req.Note,
	}
	w.session.Prepend(tx)
	w.persist(ctx, &tx)

	w.log.Info().
		Str("tx_id", tx.ID).
		Str("from", req.FromAccount).
		Str("to", req.ToAccount).
		Msg("internal transfer committed")
	return &tx, nil
}

// History returns ledger entries newest-first, optionally filtered by kind
// and matched against a search term (counterparties, currency, id).
func (w *Wallet) History(kind, search string) []domain.Transaction {
	txs := make([]domain.Transaction, 0, len(w.session.Ledger))
	search = strings.ToLower(search)

	for _, tx := range w.session.Ledger {
		if kind != "" && kind != "all" && string(tx.Kind) != kind {
			continue
		}
		if search != "" && !matchesSearch(tx, search) {
			continue
		}
		txs = append(txs, tx)
	}

	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Timestamp.After(txs[j].Timestamp)
	})
	return txs
}

// Overview returns the balance summary for display.
func (w *Wallet) Overview() Overview {
	balances := make(map[domain.Currency]domain.Balance, len(w.session.Balances))
	for cur, bal := range w.session.Balances {
		balances[cur] = bal
	}
	return Overview{
		Email:    w.session.Identity.Email,
		Address:  w.session.Identity.WalletAddress,
		Balances: balances,
		Total:    w.session.TotalReferenceValue(),
	}
}

// ReceiveAddress returns the static receive address for the currency,
// falling back to the session wallet address.
func (w *Wallet) ReceiveAddress(c domain.Currency) string {
	if addr, ok := w.cfg.Addresses[c]; ok {
		return addr
	}
	return w.session.Identity.WalletAddress
}

// Session exposes the underlying record to read-side collaborators.
func (w *Wallet) Session() *domain.Session { return w.session }

func (w *Wallet) checkSession() error {
	if w.session == nil || !w.session.Identity.IsComplete() {
		return apperror.ErrSessionExpired()
	}
	return nil
}

// persist writes the committed record. The tiered store already handles
// remote failure; a residual error is logged, never unwinds the commit.
func (w *Wallet) persist(ctx context.Context, tx *domain.Transaction) {
	if err := w.ledger.Save(ctx, w.session.Identity.Email, tx); err != nil {
		w.log.Warn().Err(err).Str("tx_id", tx.ID).Msg("transaction save failed")
	}
}

func matchesSearch(tx domain.Transaction, search string) bool {
	return strings.Contains(strings.ToLower(tx.From), search) ||
		strings.Contains(strings.ToLower(tx.To), search) ||
		strings.Contains(strings.ToLower(string(tx.Currency)), search) ||
		strings.Contains(strings.ToLower(tx.ID), search)
}

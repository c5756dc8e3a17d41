package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	httpHandler "secure-wallet/internal/adapter/http/handler"
	memStorage "secure-wallet/internal/adapter/storage/memory"
	redisStorage "secure-wallet/internal/adapter/storage/redis"
	tieredStorage "secure-wallet/internal/adapter/storage/tiered"
	"secure-wallet/internal/core/domain"
	"secure-wallet/internal/core/ports"
	"secure-wallet/internal/service"
	"secure-wallet/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The integration suite runs the real HTTP layer, middleware, services and
// Redis attempt store end-to-end over miniredis; only the primary identity
// and ledger backends are in-memory.

type outbox struct {
	mu    sync.Mutex
	codes []string
}

func (o *outbox) SendCode(_ context.Context, _, code string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.codes = append(o.codes, code)
	return nil
}

func (o *outbox) last() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.codes[len(o.codes)-1]
}

// failingRemote simulates a primary backend outage for the tiered store.
type failingRemote struct{}

func (failingRemote) Load(context.Context, string) (*domain.Identity, error) {
	return nil, errors.New("primary store unavailable")
}

func (failingRemote) Save(context.Context, *domain.Identity) error {
	return errors.New("primary store unavailable")
}

type failingRemoteLedger struct{}

func (failingRemoteLedger) Save(context.Context, string, *domain.Transaction) error {
	return errors.New("primary store unavailable")
}

func (failingRemoteLedger) List(context.Context, string) ([]domain.Transaction, error) {
	return nil, errors.New("primary store unavailable")
}

type testApp struct {
	server *httptest.Server
	redis  *miniredis.Miniredis
	mail   *outbox
	// Direct handles on the two identity tiers for seeding and readback.
	remoteIdentities *memStorage.IdentityStore
	localIdentities  *memStorage.IdentityStore
}

type appOptions struct {
	remoteDown bool // simulate a primary backend outage
}

func newTestApp(t *testing.T, opts appOptions) *testApp {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})

	log := logger.New("error", false)
	mail := &outbox{}
	codes := service.NewRandomCodeGenerator()

	health := tieredStorage.NewHealth()
	local := memStorage.NewIdentityStore()
	remoteStore := memStorage.NewIdentityStore()
	var remote ports.IdentityRepository = remoteStore
	var remoteLedger ports.TransactionRepository = memStorage.NewTransactionStore()
	if opts.remoteDown {
		remote = failingRemote{}
		remoteLedger = failingRemoteLedger{}
	}
	identityRepo := tieredStorage.NewIdentityRepo(remote, local, health, log)
	ledger := tieredStorage.NewTransactionRepo(
		remoteLedger, memStorage.NewTransactionStore(), health, log)

	throttle := service.NewThrottle(redisStorage.NewAttemptStore(rdb), 3, 2*time.Hour, log)

	prices := domain.PriceTable{domain.CurrencyBTC: 27000, domain.CurrencyETH: 1750, domain.CurrencyUSDT: 1}
	onboarding := service.NewOnboarding(identityRepo, ledger, throttle, mail,
		service.NewSHA256Hasher(), codes,
		service.OnboardingConfig{
			OTPTTL:         10 * time.Minute,
			ResendCooldown: time.Minute,
			SeedBalances:   map[domain.Currency]float64{domain.CurrencyUSDT: 1234.56},
			Prices:         prices,
		}, log)

	walletCfg := service.WalletConfig{
		SendCodeTTL: 10 * time.Minute,
		Fees:        domain.FeeTable{domain.CurrencyUSDT: 2.5},
		Prices:      prices,
	}
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		Onboarding: onboarding,
		NewWallet: func(s *domain.Session) *service.Wallet {
			return service.NewWallet(s, ledger, mail, codes, walletCfg, log)
		},
		QRSvc:    service.NewQRService(),
		TokenSvc: service.NewJWTTokenService("integration-test-secret", time.Hour, "secure-wallet"),
		Degraded: health.Degraded,
		Checkers: []ports.HealthChecker{redisStorage.NewHealthCheck(rdb)},
		Logger:   log,
	})

	app := &testApp{
		server:           httptest.NewServer(router),
		redis:            mr,
		mail:             mail,
		remoteIdentities: remoteStore,
		localIdentities:  local,
	}
	t.Cleanup(func() {
		app.server.Close()
		app.redis.Close()
	})
	return app
}

func (a *testApp) post(t *testing.T, path string, body interface{}, token string) (*http.Response, map[string]interface{}) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, a.server.URL+path, bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func (a *testApp) get(t *testing.T, path, token string) (*http.Response, map[string]interface{}) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, a.server.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func data(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	d, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "missing data envelope: %v", body)
	return d
}

func TestIntegration_HealthCheck(t *testing.T) {
	app := newTestApp(t, appOptions{})

	resp, body := app.get(t, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
}

func TestIntegration_LockoutSurvivesOverRedis(t *testing.T) {
	app := newTestApp(t, appOptions{})

	resp, _ := app.post(t, "/api/v1/onboarding/otp/request",
		map[string]interface{}{"email": "alice@example.com"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Three wrong codes trip the Redis-backed lockout.
	for i := 0; i < 2; i++ {
		resp, body := app.post(t, "/api/v1/onboarding/otp/verify",
			map[string]interface{}{"code": "000000"}, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "CODE_002", body["error_code"])
	}
	resp, body := app.post(t, "/api/v1/onboarding/otp/verify",
		map[string]interface{}{"code": "000000"}, "")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "THR_001", body["error_code"])

	// Even the correct code is refused while locked.
	resp, body = app.post(t, "/api/v1/onboarding/otp/verify",
		map[string]interface{}{"code": app.mail.last()}, "")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "THR_001", body["error_code"])
}

func TestIntegration_ReturningUserStraightToActive(t *testing.T) {
	app := newTestApp(t, appOptions{})

	require.NoError(t, app.remoteIdentities.Save(context.Background(), &domain.Identity{
		Email:          "bob@example.com",
		PasswordDigest: "digest",
		RecoveryPhrase: []string{"firewall", "malware", "phishing", "hashing", "intrusion", "exploit",
			"patch", "sandbox", "trojan", "backdoor", "keylogger", "protocol"},
		WalletAddress: "bc1qreturning000000000000000000000",
	}))

	resp, _ := app.post(t, "/api/v1/onboarding/otp/request",
		map[string]interface{}{"email": "bob@example.com"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := app.post(t, "/api/v1/onboarding/otp/verify",
		map[string]interface{}{"code": app.mail.last()}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	d := data(t, body)
	assert.Equal(t, "ACTIVE", d["state"])
	assert.NotEmpty(t, d["token"])
}

func TestIntegration_DegradedModeFlagsResponses(t *testing.T) {
	app := newTestApp(t, appOptions{remoteDown: true})

	resp, _ := app.post(t, "/api/v1/onboarding/otp/request",
		map[string]interface{}{"email": "carol@example.com"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = app.post(t, "/api/v1/onboarding/otp/verify",
		map[string]interface{}{"code": app.mail.last()}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := app.post(t, "/api/v1/onboarding/password",
		map[string]interface{}{"password": "Str0ng!Pass", "confirm": "Str0ng!Pass"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw := data(t, body)["phrase"].([]interface{})
	words := make([]string, len(raw))
	for i, v := range raw {
		words[i] = v.(string)
	}

	resp, body = app.post(t, "/api/v1/onboarding/phrase/confirm",
		map[string]interface{}{"phrase": strings.Join(words, " "), "acknowledged": true}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := data(t, body)["token"].(string)

	// Saves went through the local fallback; responses carry the flag.
	resp, body = app.get(t, "/api/v1/wallet/overview", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	degraded, _ := body["degraded"].(bool)
	assert.True(t, degraded)

	// The identity still landed locally.
	stored, err := app.localIdentities.Load(context.Background(), "carol@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.IsComplete())
}

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authflow/internal/auth"
	"authflow/internal/config"
	"authflow/internal/email"
)

var (
	verifyLinkRe = regexp.MustCompile(`/verify/([0-9a-f]{64})`)
	otpBodyRe    = regexp.MustCompile(`<b>([0-9]{6})</b>`)
)

type captureQueue struct {
	mu   sync.Mutex
	msgs []email.Message
}

func (q *captureQueue) Enqueue(_ context.Context, msg email.Message) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.msgs = append(q.msgs, msg)
	return nil
}

func (q *captureQueue) last(t *testing.T) email.Message {
	t.Helper()
	q.mu.Lock()
	defer q.mu.Unlock()
	require.NotEmpty(t, q.msgs)
	return q.msgs[len(q.msgs)-1]
}

func newTestServer(t *testing.T) (http.Handler, *captureQueue) {
	t.Helper()
	cfg := config.Config{
		BaseURL:        "http://localhost:5173",
		AllowedOrigins: []string{"http://localhost:5173"},
		SessionTTL:     time.Hour,
		OTPTTL:         10 * time.Minute,
	}

	queue := &captureQueue{}
	sessions := auth.NewSessionIssuer([]byte("test-signing-key"), cfg.SessionTTL)
	lifecycle := auth.NewLifecycle(auth.NewMemoryStore(), auth.NewBcryptHasher(), sessions, queue, cfg.BaseURL, cfg.OTPTTL)

	return NewServer(cfg, lifecycle, sessions).Router(), queue
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for key, vals := range header {
		for _, v := range vals {
			req.Header.Add(key, v)
		}
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["message"]
}

func TestAuthFlow_EndToEnd(t *testing.T) {
	handler, queue := newTestServer(t)

	// Signup.
	rec := doJSON(t, handler, http.MethodPost, "/api/auth/signup",
		map[string]string{"name": "A", "email": "a@x.com", "password": "secret1"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Signup successful. Verification email sent.", message(t, rec))

	// Duplicate signup conflicts.
	rec = doJSON(t, handler, http.MethodPost, "/api/auth/signup",
		map[string]string{"name": "B", "email": "a@x.com", "password": "other"}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User already exists", message(t, rec))

	// Login before verification is refused with a distinct message.
	rec = doJSON(t, handler, http.MethodPost, "/api/auth/login",
		map[string]string{"email": "a@x.com", "password": "secret1"}, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Please verify your email", message(t, rec))

	// Verify with the mailed token.
	token := verifyLinkRe.FindStringSubmatch(queue.last(t).HTML)[1]
	rec = doJSON(t, handler, http.MethodGet, "/api/auth/verify/"+token, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Email verified successfully", message(t, rec))

	// The token is spent.
	rec = doJSON(t, handler, http.MethodGet, "/api/auth/verify/"+token, nil, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid or expired token", message(t, rec))

	// Wrong password after verification.
	rec = doJSON(t, handler, http.MethodPost, "/api/auth/login",
		map[string]string{"email": "a@x.com", "password": "wrong"}, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials", message(t, rec))

	// Successful login returns a bearer token and the public profile.
	rec = doJSON(t, handler, http.MethodPost, "/api/auth/login",
		map[string]string{"email": "a@x.com", "password": "secret1"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var login struct {
		Message string       `json:"message"`
		Token   string       `json:"token"`
		User    auth.Profile `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	assert.Equal(t, "Login successful", login.Message)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, "A", login.User.Name)
	assert.Equal(t, "a@x.com", login.User.Email)
	assert.NotEmpty(t, login.User.ID)

	// The token authenticates /me.
	header := http.Header{"Authorization": []string{"Bearer " + login.Token}}
	rec = doJSON(t, handler, http.MethodGet, "/api/auth/me", nil, header)
	require.Equal(t, http.StatusOK, rec.Code)

	var profile auth.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, login.User, profile)

	// Logout acknowledges without touching anything.
	rec = doJSON(t, handler, http.MethodPost, "/api/auth/logout", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Logged out successfully", message(t, rec))
}

func TestAuthFlow_PasswordReset(t *testing.T) {
	handler, queue := newTestServer(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/auth/signup",
		map[string]string{"name": "A", "email": "a@x.com", "password": "secret1"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	token := verifyLinkRe.FindStringSubmatch(queue.last(t).HTML)[1]
	rec = doJSON(t, handler, http.MethodGet, "/api/auth/verify/"+token, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Unknown account is revealed here, unlike login.
	rec = doJSON(t, handler, http.MethodPost, "/api/auth/forgot-password",
		map[string]string{"email": "nobody@x.com"}, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", message(t, rec))

	rec = doJSON(t, handler, http.MethodPost, "/api/auth/forgot-password",
		map[string]string{"email": "a@x.com"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OTP sent to email", message(t, rec))
	otp := otpBodyRe.FindStringSubmatch(queue.last(t).HTML)[1]

	// A wrong code is rejected without detail.
	wrong := "000000"
	if otp == wrong {
		wrong = "000001"
	}
	rec = doJSON(t, handler, http.MethodPost, "/api/auth/reset-password",
		map[string]string{"email": "a@x.com", "otp": wrong, "newPassword": "newsecret"}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid or expired OTP", message(t, rec))

	rec = doJSON(t, handler, http.MethodPost, "/api/auth/reset-password",
		map[string]string{"email": "a@x.com", "otp": otp, "newPassword": "newsecret"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Password reset successful", message(t, rec))

	// The OTP is spent.
	rec = doJSON(t, handler, http.MethodPost, "/api/auth/reset-password",
		map[string]string{"email": "a@x.com", "otp": otp, "newPassword": "again"}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Old password dead, new password lives.
	rec = doJSON(t, handler, http.MethodPost, "/api/auth/login",
		map[string]string{"email": "a@x.com", "password": "secret1"}, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, handler, http.MethodPost, "/api/auth/login",
		map[string]string{"email": "a@x.com", "password": "newsecret"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthHandlers_Validation(t *testing.T) {
	handler, _ := newTestServer(t)

	tests := []struct {
		name string
		path string
		body map[string]string
	}{
		{name: "signup missing name", path: "/api/auth/signup", body: map[string]string{"email": "a@x.com", "password": "x"}},
		{name: "signup bad email", path: "/api/auth/signup", body: map[string]string{"name": "A", "email": "not-an-email", "password": "x"}},
		{name: "login missing password", path: "/api/auth/login", body: map[string]string{"email": "a@x.com"}},
		{name: "forgot bad email", path: "/api/auth/forgot-password", body: map[string]string{"email": ""}},
		{name: "reset missing otp", path: "/api/auth/reset-password", body: map[string]string{"email": "a@x.com", "newPassword": "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, handler, http.MethodPost, tt.path, tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestRequireSession(t *testing.T) {
	handler, _ := newTestServer(t)

	rec := doJSON(t, handler, http.MethodGet, "/api/auth/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	header := http.Header{"Authorization": []string{"Bearer not-a-token"}}
	rec = doJSON(t, handler, http.MethodGet, "/api/auth/me", nil, header)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealthAndCORS(t *testing.T) {
	handler, _ := newTestServer(t)

	rec := doJSON(t, handler, http.MethodGet, "/", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Server is Live", rec.Body.String())

	// Allowed origin gets echoed back on preflight.
	header := http.Header{"Origin": []string{"http://localhost:5173"}}
	rec = doJSON(t, handler, http.MethodOptions, "/api/auth/login", nil, header)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	// Unknown origins get no CORS headers.
	header = http.Header{"Origin": []string{"http://evil.example"}}
	rec = doJSON(t, handler, http.MethodOptions, "/api/auth/login", nil, header)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

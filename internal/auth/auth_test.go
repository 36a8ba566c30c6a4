package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndValidate(t *testing.T) {
	svc := NewService("secret")

	res, err := svc.IssueGuest("Ada")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.User.ID, "user_"))

	user, err := svc.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User, *user)
}

func TestValidateRejects(t *testing.T) {
	svc := NewService("secret")
	res, err := svc.IssueGuest("Ada")
	require.NoError(t, err)

	_, err = NewService("other").ValidateToken(res.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewService("secret")
	expired.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	old, err := expired.IssueGuest("Ada")
	require.NoError(t, err)
	_, err = svc.ValidateToken(old.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasscode(t *testing.T) {
	hash, err := HashPasscode("open sesame")
	require.NoError(t, err)

	assert.NoError(t, CheckPasscode(hash, "open sesame"))
	assert.ErrorIs(t, CheckPasscode(hash, "nope"), ErrInvalidPasscode)
	assert.NoError(t, CheckPasscode("", "anything"), "boards without a passcode are open")
}

func TestMiddleware(t *testing.T) {
	svc := NewService("secret")
	res, err := svc.IssueGuest("Ada")
	require.NoError(t, err)

	var seen string
	h := svc.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserIDFromContext(r.Context())
	}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer abc", http.StatusUnauthorized},
		{"ok", "Bearer " + res.Token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, res.User.ID, seen)
			}
		})
	}
}

func TestTokenHandler(t *testing.T) {
	h := NewHandler(NewService("secret"))

	rec := httptest.NewRecorder()
	h.Token(rec, httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(`{"displayName":"  Ada "}`)))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"displayName":"Ada"`)

	rec = httptest.NewRecorder()
	h.Token(rec, httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(`{"displayName":""}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.Token(rec, httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(`{`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/devcheck/devcheck-be/internal/models"
	"github.com/devcheck/devcheck-be/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUsers map[string]models.User

func (s stubUsers) GetUserByID(_ context.Context, id string) (models.User, error) {
	u, ok := s[id]
	if !ok {
		return models.User{}, services.ErrNotFound
	}
	return u, nil
}

var ada = models.User{ID: "u-ada", Username: "ada"}

func newIssuer() *TokenIssuer {
	return NewTokenIssuer("test-secret", time.Minute, time.Hour)
}

func TestIssueAndValidate(t *testing.T) {
	issuer := newIssuer()
	pair, err := issuer.Issue(ada)
	require.NoError(t, err)

	claims, err := issuer.Validate(pair.Access, AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u-ada", claims.UserID)
	assert.Equal(t, "ada", claims.Username)

	_, err = issuer.Validate(pair.Refresh, AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken, "refresh token used as access token")
	_, err = issuer.Validate(pair.Access, RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken, "access token used as refresh token")
}

func TestValidate_Rejects(t *testing.T) {
	issuer := newIssuer()
	pair, err := issuer.Issue(ada)
	require.NoError(t, err)

	other := NewTokenIssuer("another-secret", time.Minute, time.Hour)
	_, err = other.Validate(pair.Access, AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken, "foreign signature")

	_, err = issuer.Validate("not-a-jwt", AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	issuer.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = issuer.Validate(pair.Access, AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken, "expired")
}

func TestRefresh(t *testing.T) {
	issuer := newIssuer()
	pair, err := issuer.Issue(ada)
	require.NoError(t, err)

	access, claims, err := issuer.Refresh(pair.Refresh)
	require.NoError(t, err)
	assert.Equal(t, "u-ada", claims.UserID)
	_, err = issuer.Validate(access, AccessToken)
	assert.NoError(t, err)

	_, _, err = issuer.Refresh(pair.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMiddleware(t *testing.T) {
	issuer := newIssuer()
	pair, err := issuer.Issue(ada)
	require.NoError(t, err)
	ghost, err := issuer.Issue(models.User{ID: "u-deleted", Username: "ghost"})
	require.NoError(t, err)

	protected := Middleware(issuer, stubUsers{ada.ID: ada})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		require.True(t, ok)
		w.Write([]byte(user.Username))
	}))

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{"bearer header", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+pair.Access) }, http.StatusOK},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "token", Value: pair.Access}) }, http.StatusOK},
		{"missing", func(r *http.Request) {}, http.StatusUnauthorized},
		{"wrong scheme", func(r *http.Request) { r.Header.Set("Authorization", "Basic "+pair.Access) }, http.StatusUnauthorized},
		{"refresh token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+pair.Refresh) }, http.StatusUnauthorized},
		{"deleted user", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+ghost.Access) }, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()

			protected.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "ada", rec.Body.String())
				return
			}
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

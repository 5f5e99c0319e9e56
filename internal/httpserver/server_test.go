package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/robalobadob/wordchain/apps/go-server/internal/auth"
	"github.com/robalobadob/wordchain/apps/go-server/internal/chain"
	"github.com/robalobadob/wordchain/apps/go-server/internal/db"
	"github.com/robalobadob/wordchain/apps/go-server/internal/game"
)

func setupServer(t *testing.T) *Server {
	t.Helper()
	return setupServerWithIdentity(t, nil)
}

// setupServerWithIdentity uses id for submissions; nil means the account service.
func setupServerWithIdentity(t *testing.T, id game.Identity) *Server {
	t.Helper()
	conn, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.Migrate(conn))

	accounts := auth.NewService(conn, "test-secret", time.Hour)
	accounts.SetBcryptCost(bcrypt.MinCost)
	if id == nil {
		id = accounts
	}
	ctrl := game.NewController(chain.New(), id)
	return New(ctrl, accounts, Options{
		Cookies: auth.Cookies{Name: "wordchain_token"},
		Logger:  zerolog.Nop(),
	})
}

func do(t *testing.T, s *Server, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func signup(t *testing.T, s *Server, username string) string {
	t.Helper()
	w := do(t, s, http.MethodPost, "/auth/signup", map[string]string{"username": username, "password": "password123"}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var res struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	require.NotEmpty(t, res.Token)
	return res.Token
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	s := setupServer(t)
	w := do(t, s, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
}

func TestChain_EmptyState(t *testing.T) {
	s := setupServer(t)
	w := do(t, s, http.MethodGet, "/chain", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	res := decode[chainRes](t, w)
	assert.Empty(t, res.Entries)
	assert.Equal(t, 0, res.Length)
	assert.Empty(t, res.NextLetter)
	assert.Equal(t, "Enter a word starting with any letter", res.Prompt)
	assert.False(t, res.Submitting)
}

func TestSubmit_Flow(t *testing.T) {
	s := setupServer(t)
	tok := signup(t, s, "founder")

	// success, with surrounding whitespace trimmed
	w := do(t, s, http.MethodPost, "/chain/words", submitReq{Word: "  Cloud "}, tok)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	res := decode[submitRes](t, w)
	assert.Equal(t, game.KindSuccess, res.Outcome)
	require.NotNil(t, res.Entry)
	assert.Equal(t, "CLOUD", res.Entry.Word)
	assert.Equal(t, "founder", res.Entry.Author)
	assert.Equal(t, 45, res.Entry.MemeScore)
	assert.Equal(t, "🚀 Successfully disrupted the chain!", res.Message)

	// wrong starting letter
	w = do(t, s, http.MethodPost, "/chain/words", submitReq{Word: "Apple"}, tok)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	res = decode[submitRes](t, w)
	assert.Equal(t, game.KindValidationFailed, res.Outcome)
	assert.Equal(t, "wrong_starting_letter", res.Reason)
	assert.Equal(t, "D", res.Expected)
	assert.Equal(t, `Word must start with "D"`, res.Message)

	// non alphabetic
	w = do(t, s, http.MethodPost, "/chain/words", submitReq{Word: "Data3"}, tok)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "non_alphabetic", decode[submitRes](t, w).Reason)

	w = do(t, s, http.MethodPost, "/chain/words", submitReq{Word: "Data"}, tok)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, s, http.MethodGet, "/chain", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	state := decode[chainRes](t, w)
	require.Len(t, state.Entries, 2)
	assert.Equal(t, "DATA", state.Entries[1].Word)
	assert.Equal(t, "A", state.NextLetter)
	assert.Equal(t, "Enter a word starting with A", state.Prompt)
}

func TestSubmit_GuestIsUnauthorized(t *testing.T) {
	s := setupServer(t)

	// validation still runs first for guests
	w := do(t, s, http.MethodPost, "/chain/words", submitReq{Word: ""}, "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "empty", decode[submitRes](t, w).Reason)

	w = do(t, s, http.MethodPost, "/chain/words", submitReq{Word: "Cloud"}, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	res := decode[submitRes](t, w)
	assert.Equal(t, game.KindSubmissionFailed, res.Outcome)
	assert.Equal(t, "Failed to submit word. Please try again or check your connection.", res.Message)

	w = do(t, s, http.MethodGet, "/chain", nil, "")
	assert.Equal(t, 0, decode[chainRes](t, w).Length)
}

func TestSubmit_InFlightReturnsConflict(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	s := setupServerWithIdentity(t, game.IdentityFunc(func(context.Context) (game.User, error) {
		close(entered)
		<-release
		return game.User{ID: "u-1", Username: "founder"}, nil
	}))

	first := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		first <- do(t, s, http.MethodPost, "/chain/words", submitReq{Word: "Cloud"}, "")
	}()
	<-entered

	w := do(t, s, http.MethodPost, "/chain/words", submitReq{Word: "Data"}, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "submission_in_progress")

	busy := do(t, s, http.MethodGet, "/chain", nil, "")
	assert.True(t, decode[chainRes](t, busy).Submitting)

	close(release)
	w = <-first
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "CLOUD", decode[submitRes](t, w).Entry.Word)

	state := decode[chainRes](t, do(t, s, http.MethodGet, "/chain", nil, ""))
	assert.Equal(t, 1, state.Length)
	assert.False(t, state.Submitting)
}

func TestSubmit_BadJSON(t *testing.T) {
	s := setupServer(t)
	req := httptest.NewRequest(http.MethodPost, "/chain/words", bytes.NewBufferString("{"))
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthRoutes(t *testing.T) {
	s := setupServer(t)
	tok := signup(t, s, "vc_partner")

	w := do(t, s, http.MethodPost, "/auth/signup", map[string]string{"username": "VC_PARTNER", "password": "password123"}, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, s, http.MethodPost, "/auth/login", map[string]string{"username": "vc_partner", "password": "nope-nope"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, s, http.MethodPost, "/auth/login", map[string]string{"username": "vc_partner", "password": "password123"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Result().Cookies())

	w = do(t, s, http.MethodGet, "/auth/me", nil, tok)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "vc_partner", decode[map[string]string](t, w)["username"])

	w = do(t, s, http.MethodGet, "/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, s, http.MethodPost, "/auth/logout", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNotFound(t *testing.T) {
	s := setupServer(t)
	w := do(t, s, http.MethodGet, "/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not_found")
}

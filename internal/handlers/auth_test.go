package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-records-server/internal/models"
	"clinic-records-server/internal/store"
)

var discard = zerolog.New(io.Discard)

func perform(h gin.HandlerFunc, method, target, body string, setup ...func(c *gin.Context)) *httptest.ResponseRecorder {
	return performRoute(h, method, target, target, body, setup...)
}

// performRoute serves a single request through h mounted at route.
func performRoute(h gin.HandlerFunc, method, route, target, body string, setup ...func(c *gin.Context)) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Handle(method, route, func(c *gin.Context) {
		for _, fn := range setup {
			fn(c)
		}
		h(c)
	})

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func account(t *testing.T, email, password string) *models.Account {
	t.Helper()
	a := &models.Account{FullName: "Dr. A", Email: email}
	require.NoError(t, a.SetPassword(password))
	a.ID = "acc-1"
	return a
}

func TestRegister_RequiredFieldsInOrder(t *testing.T) {
	repo := &mockAccounts{}
	h := NewAuthHandler(repo, stubTokens{token: "tok"}, nil, discard)

	tests := []struct {
		body string
		want string
	}{
		{body: `{}`, want: "Full name is required"},
		{body: `{"email":"a@x.com","password":"p1"}`, want: "Full name is required"},
		{body: `{"fullName":"Dr. A","password":"p1"}`, want: "Email is required"},
		{body: `{"fullName":"Dr. A","email":"a@x.com"}`, want: "Password is required"},
		{body: `{"fullName":"","email":"a@x.com","password":"p1"}`, want: "Full name is required"},
	}
	for _, tt := range tests {
		w := perform(h.Register, http.MethodPost, "/create-account", tt.body)
		assert.Equal(t, http.StatusBadRequest, w.Code, tt.body)
		body := decodeBody(t, w)
		assert.Equal(t, true, body["error"])
		assert.Equal(t, tt.want, body["message"])
	}
	assert.Zero(t, repo.CreateCallCount)
}

func TestRegister_ExistingEmail(t *testing.T) {
	repo := &mockAccounts{
		FindByEmailFunc: func(ctx context.Context, email string) (*models.Account, error) {
			return account(t, email, "p1"), nil
		},
	}
	h := NewAuthHandler(repo, stubTokens{token: "tok"}, nil, discard)

	w := perform(h.Register, http.MethodPost, "/create-account", `{"fullName":"Dr. A","email":"a@x.com","password":"p1"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["error"])
	assert.Equal(t, "User already exists", body["message"])
	assert.Zero(t, repo.CreateCallCount)
}

func TestRegister_RacingDuplicateInsert(t *testing.T) {
	repo := &mockAccounts{
		CreateFunc: func(ctx context.Context, fullName, email, password string) (*models.Account, error) {
			return nil, store.ErrDuplicateKey
		},
	}
	h := NewAuthHandler(repo, stubTokens{token: "tok"}, nil, discard)

	w := perform(h.Register, http.MethodPost, "/create-account", `{"fullName":"Dr. A","email":"a@x.com","password":"p1"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User already exists", decodeBody(t, w)["message"])
}

func TestRegister_Success(t *testing.T) {
	var gotPassword string
	repo := &mockAccounts{
		CreateFunc: func(ctx context.Context, fullName, email, password string) (*models.Account, error) {
			gotPassword = password
			a := account(t, email, password)
			a.FullName = fullName
			return a, nil
		},
	}
	h := NewAuthHandler(repo, stubTokens{token: "tok"}, nil, discard)

	w := perform(h.Register, http.MethodPost, "/create-account", `{"fullName":"Dr. A","email":"a@x.com","password":"p1"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "p1", gotPassword)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["error"])
	assert.Equal(t, "Registration Successful", body["message"])
	assert.Equal(t, "tok:acc-1", body["accessToken"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "Dr. A", user["fullName"])
	assert.Equal(t, "a@x.com", user["email"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, w.Body.String(), "p1")
}

func TestRegister_StoreFailureIsGeneric(t *testing.T) {
	repo := &mockAccounts{
		FindByEmailFunc: func(ctx context.Context, email string) (*models.Account, error) {
			return nil, errors.New("dial tcp 10.0.0.5:3306: connection refused")
		},
	}
	var logs bytes.Buffer
	h := NewAuthHandler(repo, stubTokens{token: "tok"}, nil, zerolog.New(&logs))

	w := perform(h.Register, http.MethodPost, "/create-account", `{"fullName":"Dr. A","email":"a@x.com","password":"p1"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["error"])
	assert.Equal(t, "Internal Server Error", body["message"])
	assert.NotContains(t, w.Body.String(), "connection refused")
	assert.Contains(t, logs.String(), "connection refused")
}

func TestLogin(t *testing.T) {
	stored := account(t, "a@x.com", "p1")
	repo := &mockAccounts{
		FindByEmailFunc: func(ctx context.Context, email string) (*models.Account, error) {
			if strings.EqualFold(email, stored.Email) {
				return stored, nil
			}
			return nil, store.ErrNotFound
		},
	}
	h := NewAuthHandler(repo, stubTokens{token: "tok"}, nil, discard)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantMsg    string
	}{
		{name: "missing email", body: `{"password":"p1"}`, wantStatus: http.StatusBadRequest, wantMsg: "Email is required"},
		{name: "missing password", body: `{"email":"a@x.com"}`, wantStatus: http.StatusBadRequest, wantMsg: "Password is required"},
		{name: "unknown user", body: `{"email":"b@x.com","password":"p1"}`, wantStatus: http.StatusBadRequest, wantMsg: "User not found"},
		{name: "wrong password", body: `{"email":"a@x.com","password":"nope"}`, wantStatus: http.StatusBadRequest, wantMsg: "Invalid Credentials"},
		{name: "email case differs", body: `{"email":"A@X.com","password":"p1"}`, wantStatus: http.StatusBadRequest, wantMsg: "Invalid Credentials"},
		{name: "success", body: `{"email":"a@x.com","password":"p1"}`, wantStatus: http.StatusOK, wantMsg: "Login Successful"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := perform(h.Login, http.MethodPost, "/login", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			body := decodeBody(t, w)
			assert.Equal(t, tt.wantMsg, body["message"])
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, false, body["error"])
				assert.Equal(t, "tok:acc-1", body["accessToken"])
				assert.Equal(t, "a@x.com", body["email"])
			} else {
				assert.Equal(t, true, body["error"])
				assert.NotContains(t, body, "accessToken")
			}
		})
	}
}

func TestLogin_TokenFailure(t *testing.T) {
	repo := &mockAccounts{
		FindByEmailFunc: func(ctx context.Context, email string) (*models.Account, error) {
			return account(t, "a@x.com", "p1"), nil
		},
	}
	h := NewAuthHandler(repo, stubTokens{err: errors.New("sign failed")}, nil, discard)

	w := perform(h.Login, http.MethodPost, "/login", `{"email":"a@x.com","password":"p1"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetProfile(t *testing.T) {
	stored := account(t, "a@x.com", "p1")
	repo := &mockAccounts{
		FindByIDFunc: func(ctx context.Context, id string) (*models.Account, error) {
			if id == stored.ID {
				return stored, nil
			}
			return nil, store.ErrNotFound
		},
	}
	h := NewAuthHandler(repo, stubTokens{token: "tok"}, nil, discard)
	as := func(id string) func(c *gin.Context) {
		return func(c *gin.Context) { c.Set("accountID", id) }
	}

	w := perform(h.GetProfile, http.MethodGet, "/get-user", "", as("acc-1"))
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "User details retrieved successfully", body["message"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "acc-1", user["id"])
	assert.Equal(t, "Dr. A", user["fullName"])
	assert.NotContains(t, user, "password")

	w = perform(h.GetProfile, http.MethodGet, "/get-user", "", as("acc-gone"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", decodeBody(t, w)["message"])

	w = perform(h.GetProfile, http.MethodGet, "/get-user", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

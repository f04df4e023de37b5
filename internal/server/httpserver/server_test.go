package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/harmwatch/server/internal/crypto"
	"github.com/harmwatch/server/internal/limiter"
	"github.com/harmwatch/server/internal/model"
	"github.com/harmwatch/server/internal/repository/jsonstore"
	"github.com/harmwatch/server/internal/server/httpserver"
	"github.com/harmwatch/server/internal/service"
)

type testEnv struct {
	srv   *httptest.Server
	users *jsonstore.UserRepo
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := jsonstore.New(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	userRepo := jsonstore.NewUserRepo(store)
	caseRepo := jsonstore.NewCaseRepo(store)
	evidenceRepo := jsonstore.NewEvidenceRepo(store)

	lim := limiter.NewMemory(time.Minute, 100, time.Minute)
	authSvc := service.NewAuthService(userRepo, []byte("test-secret"), time.Hour, 4, lim)
	caseSvc := service.NewCaseService(caseRepo, evidenceRepo, userRepo)

	srv := httptest.NewServer(httpserver.New(authSvc, caseSvc, zap.NewNop()).Router())
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, users: userRepo}
}

type reply struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Error      string          `json:"error"`
	Message    string          `json:"message"`
	Pagination *model.PageInfo `json:"pagination"`
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (int, reply) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.srv.URL+path, &buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var r reply
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&r))
	return resp.StatusCode, r
}

func (e *testEnv) register(t *testing.T, username, email, password string) (model.User, string) {
	t.Helper()
	code, r := e.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"username": username, "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, code, "register failed: %s", r.Error)
	var payload struct {
		User  model.User `json:"user"`
		Token string     `json:"token"`
	}
	require.NoError(t, json.Unmarshal(r.Data, &payload))
	return payload.User, payload.Token
}

func TestHealth(t *testing.T) {
	env := newEnv(t)

	resp, err := http.Get(env.srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var banner map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&banner))
	require.Equal(t, "OK", banner["status"])
	require.Equal(t, httpserver.ServiceName, banner["service"])
}

// Register, log in, submit a case, and read it back with its defaults.
func TestSubmitAndFetchCase(t *testing.T) {
	env := newEnv(t)

	_, _ = env.register(t, "alice", "a@x.com", "pw12345")

	code, r := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "a@x.com", "password": "pw12345",
	})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "Login successful", r.Message)
	var login struct {
		User  model.User `json:"user"`
		Token string     `json:"token"`
	}
	require.NoError(t, json.Unmarshal(r.Data, &login))
	require.Empty(t, login.User.PasswordHash)

	code, r = env.do(t, http.MethodPost, "/cases", login.Token, map[string]string{
		"title": "T", "description": "D", "category": "bias",
	})
	require.Equal(t, http.StatusCreated, code)
	require.Equal(t, "Case submitted successfully", r.Message)
	var created model.Case
	require.NoError(t, json.Unmarshal(r.Data, &created))
	require.Equal(t, login.User.ID, created.CreatedBy)

	code, r = env.do(t, http.MethodGet, "/cases/"+created.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, code)
	var got model.CaseWithEvidence
	require.NoError(t, json.Unmarshal(r.Data, &got))
	require.Equal(t, model.StatusPending, got.Status)
	require.Equal(t, model.SeverityMedium, got.Severity)
	require.NotNil(t, got.Evidence)
	require.Empty(t, got.Evidence)
}

// A non-owner viewer cannot verify a case; an admin can.
func TestUpdateAuthorization(t *testing.T) {
	env := newEnv(t)

	_, tokenA := env.register(t, "alice", "a@x.com", "pw12345")
	_, tokenB := env.register(t, "bob", "b@x.com", "pw12345")

	// Seed an admin account directly; registration only creates viewers.
	hash, err := crypto.HashPassword("adminpw", 4)
	require.NoError(t, err)
	now := time.Now().UTC()
	admin := &model.User{
		ID: uuid.Must(uuid.NewV4()), Username: "root", Email: "root@x.com",
		PasswordHash: hash, Role: model.RoleAdmin, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, env.users.Create(context.Background(), admin))
	code, r := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "root@x.com", "password": "adminpw",
	})
	require.Equal(t, http.StatusOK, code)
	var adminLogin struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(r.Data, &adminLogin))

	code, r = env.do(t, http.MethodPost, "/cases", tokenA, map[string]string{
		"title": "T", "description": "D", "category": "bias",
	})
	require.Equal(t, http.StatusCreated, code)
	var c model.Case
	require.NoError(t, json.Unmarshal(r.Data, &c))

	patch := map[string]string{"status": "verified"}

	code, r = env.do(t, http.MethodPatch, "/cases/"+c.ID.String(), tokenB, patch)
	require.Equal(t, http.StatusForbidden, code)
	require.Equal(t, "Not authorized", r.Error)

	code, r = env.do(t, http.MethodPatch, "/cases/"+c.ID.String(), adminLogin.Token, patch)
	require.Equal(t, http.StatusOK, code)
	var updated model.Case
	require.NoError(t, json.Unmarshal(r.Data, &updated))
	require.Equal(t, model.StatusVerified, updated.Status)
}

// 25 cases in one category paginate into 10+10+5.
func TestListPagination(t *testing.T) {
	env := newEnv(t)

	_, token := env.register(t, "alice", "a@x.com", "pw12345")
	for i := 0; i < 25; i++ {
		code, r := env.do(t, http.MethodPost, "/cases", token, map[string]string{
			"title": fmt.Sprintf("case %d", i), "description": "D", "category": "bias",
		})
		require.Equal(t, http.StatusCreated, code, "create %d: %s", i, r.Error)
	}

	code, r := env.do(t, http.MethodGet, "/cases?category=bias&limit=10&page=3", "", nil)
	require.Equal(t, http.StatusOK, code)
	var items []model.Case
	require.NoError(t, json.Unmarshal(r.Data, &items))
	require.Len(t, items, 5)
	require.NotNil(t, r.Pagination)
	require.Equal(t, 25, r.Pagination.Total)
	require.Equal(t, 3, r.Pagination.TotalPages)

	// A category with no cases returns an empty page.
	code, r = env.do(t, http.MethodGet, "/cases?category=privacy", "", nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(r.Data, &items))
	require.Empty(t, items)
}

func TestAuthFailures(t *testing.T) {
	env := newEnv(t)

	_, token := env.register(t, "alice", "a@x.com", "pw12345")

	// Duplicate email.
	code, r := env.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"username": "alice2", "email": "a@x.com", "password": "other",
	})
	require.Equal(t, http.StatusConflict, code)
	require.Equal(t, "User already exists", r.Error)

	// Missing fields.
	code, _ = env.do(t, http.MethodPost, "/auth/register", "", map[string]string{"username": "x"})
	require.Equal(t, http.StatusBadRequest, code)

	// Wrong password.
	code, r = env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "a@x.com", "password": "nope",
	})
	require.Equal(t, http.StatusUnauthorized, code)
	require.Equal(t, "Invalid credentials", r.Error)

	// Protected routes without/with bad tokens.
	code, r = env.do(t, http.MethodPost, "/cases", "", map[string]string{"title": "T"})
	require.Equal(t, http.StatusUnauthorized, code)
	require.Equal(t, "Authentication required", r.Error)

	code, r = env.do(t, http.MethodGet, "/auth/me", "garbage", nil)
	require.Equal(t, http.StatusUnauthorized, code)
	require.Equal(t, "Invalid token", r.Error)

	// Valid token resolves the profile without the hash.
	code, r = env.do(t, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, code)
	var me model.User
	require.NoError(t, json.Unmarshal(r.Data, &me))
	require.Equal(t, "a@x.com", me.Email)
	require.Empty(t, me.PasswordHash)
}

func TestCaseNotFoundAndValidation(t *testing.T) {
	env := newEnv(t)

	_, token := env.register(t, "alice", "a@x.com", "pw12345")

	code, r := env.do(t, http.MethodGet, "/cases/"+uuid.Must(uuid.NewV4()).String(), "", nil)
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, "Case not found", r.Error)

	code, r = env.do(t, http.MethodGet, "/cases/not-a-uuid", "", nil)
	require.Equal(t, http.StatusNotFound, code)

	code, r = env.do(t, http.MethodPost, "/cases", token, map[string]string{"title": "T"})
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "Title, description, and category are required", r.Error)

	code, r = env.do(t, http.MethodPost, "/cases", token, map[string]string{
		"title": "T", "description": "D", "category": "bias", "severity": "apocalyptic",
	})
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "Invalid severity value", r.Error)
}

func TestStats(t *testing.T) {
	env := newEnv(t)

	_, token := env.register(t, "alice", "a@x.com", "pw12345")
	for _, cat := range []string{"bias", "bias", "privacy"} {
		code, _ := env.do(t, http.MethodPost, "/cases", token, map[string]string{
			"title": "T", "description": "D", "category": cat,
		})
		require.Equal(t, http.StatusCreated, code)
	}

	code, r := env.do(t, http.MethodGet, "/stats", "", nil)
	require.Equal(t, http.StatusOK, code)
	var st model.Statistics
	require.NoError(t, json.Unmarshal(r.Data, &st))
	require.Equal(t, 3, st.TotalCases)
	require.Equal(t, 1, st.TotalUsers)
	require.Equal(t, 0, st.TotalEvidence)
	require.Equal(t, 3, st.PendingCases)
	require.Equal(t, 0, st.VerifiedCases)
	require.Equal(t, 2, st.CategoryDistribution["bias"])
	require.Equal(t, 3, st.SeverityDistribution["medium"])
	require.Len(t, st.RecentCases, 3)
}

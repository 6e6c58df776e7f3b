package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/imagemodify/imagemodify/internal/auth"
	"github.com/imagemodify/imagemodify/internal/models"
	"github.com/imagemodify/imagemodify/internal/user"
)

// fakeRepo is an in-memory user.Repository.
type fakeRepo struct {
	users map[string]*models.User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[string]*models.User)}
}

func (r *fakeRepo) InitializeDatabase(ctx context.Context) error { return nil }

func (r *fakeRepo) Create(ctx context.Context, email, passwordHash string) (*models.User, error) {
	if _, exists := r.users[email]; exists {
		return nil, user.ErrDuplicateEmail
	}
	key, err := auth.NewAPIKey()
	if err != nil {
		return nil, err
	}
	u := &models.User{
		ID:           int64(len(r.users) + 1),
		Email:        email,
		PasswordHash: passwordHash,
		APIKey:       key,
		PlanName:     "Free",
		CreatedAt:    time.Now(),
	}
	r.users[email] = u
	return u, nil
}

func (r *fakeRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (r *fakeRepo) GetByAPIKey(ctx context.Context, apiKey string) (*models.User, error) {
	for _, u := range r.users {
		if u.APIKey == apiKey {
			return u, nil
		}
	}
	return nil, user.ErrNotFound
}

func (r *fakeRepo) GetOrCreateByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := r.users[email]; ok {
		return u, nil
	}
	return r.Create(ctx, email, "oauth-only")
}

func (r *fakeRepo) RegenerateAPIKey(ctx context.Context, email string) (string, error) {
	u, ok := r.users[email]
	if !ok {
		return "", user.ErrNotFound
	}
	key, err := auth.NewAPIKey()
	if err != nil {
		return "", err
	}
	u.APIKey = key
	return key, nil
}

func (r *fakeRepo) IncrementUsage(ctx context.Context, email string, edits int) error {
	u, ok := r.users[email]
	if !ok {
		return user.ErrNotFound
	}
	u.MonthlyEdits += edits
	u.TotalEdits += edits
	return nil
}

type fakeGoogle struct{}

func (fakeGoogle) AuthURL(state string) string { return "https://accounts.google.com/consent" }
func (fakeGoogle) ExchangeCode(ctx context.Context, code string) (string, error) {
	return "oauth-user@example.com", nil
}

type testEnv struct {
	repo   *fakeRepo
	router http.Handler
	tokens *auth.TokenIssuer
}

func newTestEnv(t *testing.T, automationURL string) *testEnv {
	t.Helper()

	repo := newFakeRepo()
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	client := NewAutomationClient(automationURL, 5*time.Second)
	h := NewHandler(repo, tokens, fakeGoogle{}, client, "http://localhost:5173")

	return &testEnv{
		repo:   repo,
		router: SetupRoutes(h, tokens, repo, "http://localhost:5173"),
		tokens: tokens,
	}
}

func (e *testEnv) signup(t *testing.T, email, password string) string {
	t.Helper()

	body := `{"email":"` + email + `","password":"` + password + `","confirmPassword":"` + password + `"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(body))
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("signup = %d, body: %s", rec.Code, rec.Body.String())
	}

	var resp models.TokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode signup response: %v", err)
	}
	return resp.AccessToken
}

func TestSignup_DuplicateEmail(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "http://unused")
	env.signup(t, "dup@example.com", "hunter22")

	body := `{"email":"dup@example.com","password":"other","confirmPassword":"other"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(body))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("duplicate signup = %d, want 400", rec.Code)
	}
}

func TestSignup_PasswordMismatch(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "http://unused")

	body := `{"email":"a@example.com","password":"one","confirmPassword":"two"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(body))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("mismatched passwords = %d, want 400", rec.Code)
	}
}

func TestLogin_GenericFailureMessage(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "http://unused")
	env.signup(t, "user@example.com", "hunter22")

	wrongPassword := `{"email":"user@example.com","password":"wrong"}`
	unknownEmail := `{"email":"nobody@example.com","password":"hunter22"}`

	var bodies []string
	for _, payload := range []string{wrongPassword, unknownEmail} {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(payload))
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("login failure = %d, want 401", rec.Code)
		}
		bodies = append(bodies, rec.Body.String())
	}

	// Neither response may reveal which of email/password was wrong.
	if bodies[0] != bodies[1] {
		t.Errorf("failure responses differ: %q vs %q", bodies[0], bodies[1])
	}
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "http://unused")
	env.signup(t, "user@example.com", "hunter22")

	body := `{"email":"user@example.com","password":"hunter22"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("login = %d, body: %s", rec.Code, rec.Body.String())
	}

	var resp models.TokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if resp.AccessToken == "" {
		t.Error("login returned empty access token")
	}
}

func TestProtectedEndpoints_RequireToken(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "http://unused")

	for _, path := range []string{"/user/api-key", "/user/usage", "/user/profile"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s without token = %d, want 401", path, rec.Code)
		}
	}
}

func TestRegenerateAPIKey_ChangesKey(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "http://unused")
	token := env.signup(t, "user@example.com", "hunter22")
	oldKey := env.repo.users["user@example.com"].APIKey

	req := httptest.NewRequest(http.MethodPost, "/user/api-key/regenerate", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("regenerate = %d, body: %s", rec.Code, rec.Body.String())
	}

	var resp models.APIKeyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.APIKey == oldKey {
		t.Error("regenerated key equals the old key")
	}
	if env.repo.users["user@example.com"].APIKey != resp.APIKey {
		t.Error("stored key was not rotated")
	}
}

func TestRunAutomation_IncrementsUsageOnSuccess(t *testing.T) {
	t.Parallel()

	var gotKey string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	env := newTestEnv(t, upstream.URL)
	token := env.signup(t, "user@example.com", "hunter22")

	req := httptest.NewRequest(http.MethodPost, "/automation/run", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("run = %d, body: %s", rec.Code, rec.Body.String())
	}

	account := env.repo.users["user@example.com"]
	if gotKey != account.APIKey {
		t.Errorf("automation received key %q, want the user's key", gotKey)
	}
	if account.MonthlyEdits != 1 || account.TotalEdits != 1 {
		t.Errorf("usage = %d/%d, want 1/1", account.MonthlyEdits, account.TotalEdits)
	}
}

func TestRunAutomation_NoUsageIncrementOnFailure(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()

	env := newTestEnv(t, upstream.URL)
	token := env.signup(t, "user@example.com", "hunter22")

	req := httptest.NewRequest(http.MethodPost, "/automation/run", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("run against failing upstream = %d, want 502", rec.Code)
	}

	account := env.repo.users["user@example.com"]
	if account.MonthlyEdits != 0 || account.TotalEdits != 0 {
		t.Errorf("usage = %d/%d, want 0/0 after failed trigger", account.MonthlyEdits, account.TotalEdits)
	}
}

func TestRunAutomationDynamic_ForwardsSheetSelection(t *testing.T) {
	t.Parallel()

	var gotBody models.DynamicRunRequest
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	env := newTestEnv(t, upstream.URL)
	token := env.signup(t, "user@example.com", "hunter22")

	body := `{"sheet_id":"abc123","sheet_name":"Prices"}`
	req := httptest.NewRequest(http.MethodPost, "/automation/run-dynamic", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("run-dynamic = %d, body: %s", rec.Code, rec.Body.String())
	}
	if gotBody.SheetID != "abc123" || gotBody.SheetName != "Prices" {
		t.Errorf("upstream got %+v, want sheet abc123/Prices", gotBody)
	}
}

func TestGetUsage(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "http://unused")
	token := env.signup(t, "user@example.com", "hunter22")
	env.repo.users["user@example.com"].MonthlyEdits = 7
	env.repo.users["user@example.com"].TotalEdits = 42

	req := httptest.NewRequest(http.MethodGet, "/user/usage", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("usage = %d, body: %s", rec.Code, rec.Body.String())
	}

	var resp models.UsageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.MonthlyEdits != 7 || resp.TotalEdits != 42 {
		t.Errorf("usage = %d/%d, want 7/42", resp.MonthlyEdits, resp.TotalEdits)
	}
	if resp.Plan.Name != "Free" {
		t.Errorf("plan = %q, want Free", resp.Plan.Name)
	}
}

func TestGoogleCallback_ProvisionsUser(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "http://unused")

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=authcode", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("callback = %d, want 303", rec.Code)
	}

	loc := rec.Header().Get("Location")
	if !strings.HasPrefix(loc, "http://localhost:5173/login?token=") {
		t.Errorf("redirect = %q, want frontend login with token", loc)
	}

	if _, ok := env.repo.users["oauth-user@example.com"]; !ok {
		t.Error("Google sign-in did not provision the account")
	}
}

func TestGoogleCallback_MissingCode(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "http://unused")

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("callback without code = %d, want 400", rec.Code)
	}
}

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/retailhub/user-service/internal/core/auth"
	"github.com/retailhub/user-service/internal/core/domain"
	"github.com/retailhub/user-service/internal/core/service"
)

// memUserRepo is an in-memory ports.UserRepository for end-to-end tests.
type memUserRepo struct {
	users map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*domain.User)}
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *memUserRepo) Insert(_ context.Context, user *domain.User) (*domain.User, error) {
	clone := *user
	r.users[user.ID] = &clone
	out := clone
	return &out, nil
}

func (r *memUserRepo) UpdateProfile(_ context.Context, id string, patch domain.ProfilePatch) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if patch.FirstName != nil {
		u.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		u.LastName = *patch.LastName
	}
	if patch.Phone != nil {
		u.Phone = *patch.Phone
	}
	if patch.Address != nil {
		u.Address = patch.Address
	}
	u.UpdatedAt = time.Now().UTC()
	clone := *u
	return &clone, nil
}

func (r *memUserRepo) SetPasswordHash(_ context.Context, id, hash string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *memUserRepo) SetActive(_ context.Context, id string, active bool) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.IsActive = active
	clone := *u
	return &clone, nil
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, string, map[string]any) {}

func newTestRouter(t *testing.T) *httptest.Server {
	t.Helper()

	hasher := auth.NewHasher(bcrypt.MinCost)
	codec := auth.NewCodec("test-secret", 15*time.Minute, 24*time.Hour, nil)
	guard := auth.NewGuard(codec)
	users := service.NewUserService(newMemUserRepo(), hasher, codec, nopPublisher{}, nil, nil, zerolog.Nop())

	e := NewRouter(Deps{
		Users: users,
		Guard: guard,
		Log:   zerolog.Nop(),
	})

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url, body, bearer string) (*http.Response, map[string]any) {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })

	var payload map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	return resp, payload
}

func TestRouter_RegisterLoginProfileFlow(t *testing.T) {
	srv := newTestRouter(t)

	// Register.
	resp, body := postJSON(t, srv.URL+"/v1/auth/register",
		`{"email":"a@x.com","username":"a","password":"Secret123","first_name":"Ada","last_name":"Lovelace"}`, "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d (%v)", resp.StatusCode, body)
	}
	if _, ok := body["password_hash"]; ok {
		t.Fatalf("password_hash in register response")
	}

	// Duplicate email registers must conflict.
	resp, _ = postJSON(t, srv.URL+"/v1/auth/register",
		`{"email":"a@x.com","username":"b","password":"Secret123","first_name":"A","last_name":"B"}`, "")
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate email: expected 409, got %d", resp.StatusCode)
	}

	// Login.
	resp, body = postJSON(t, srv.URL+"/v1/auth/login",
		`{"email":"a@x.com","password":"Secret123"}`, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (%v)", resp.StatusCode, body)
	}
	access, _ := body["access_token"].(string)
	refresh, _ := body["refresh_token"].(string)
	if access == "" || refresh == "" {
		t.Fatalf("tokens missing: %v", body)
	}
	if body["token_type"] != "bearer" {
		t.Fatalf("expected bearer token_type, got %v", body["token_type"])
	}

	// Wrong password and unknown email: identical status and message.
	respWrong, bodyWrong := postJSON(t, srv.URL+"/v1/auth/login", `{"email":"a@x.com","password":"nope-nope"}`, "")
	respGhost, bodyGhost := postJSON(t, srv.URL+"/v1/auth/login", `{"email":"ghost@x.com","password":"nope-nope"}`, "")
	if respWrong.StatusCode != http.StatusUnauthorized || respGhost.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", respWrong.StatusCode, respGhost.StatusCode)
	}
	if bodyWrong["error"] != bodyGhost["error"] {
		t.Fatalf("login errors distinguishable: %v vs %v", bodyWrong["error"], bodyGhost["error"])
	}

	// Authenticated profile fetch.
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/v1/profile", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	profileResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("profile request: %v", err)
	}
	defer profileResp.Body.Close()
	if profileResp.StatusCode != http.StatusOK {
		t.Fatalf("profile: expected 200, got %d", profileResp.StatusCode)
	}
	var profile map[string]any
	if err := json.NewDecoder(profileResp.Body).Decode(&profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if profile["email"] != "a@x.com" {
		t.Fatalf("profile email mismatch: %v", profile)
	}

	// Refresh token must not work as an access token.
	req, _ = http.NewRequest(http.MethodGet, srv.URL+"/v1/profile", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	wrongKindResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("profile request: %v", err)
	}
	defer wrongKindResp.Body.Close()
	if wrongKindResp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("refresh-as-access: expected 401, got %d", wrongKindResp.StatusCode)
	}

	// Refresh endpoint issues a new pair.
	resp, body = postJSON(t, srv.URL+"/v1/auth/refresh", `{"refresh_token":"`+refresh+`"}`, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("refresh: expected 200, got %d (%v)", resp.StatusCode, body)
	}
	if body["access_token"] == "" {
		t.Fatalf("refresh returned no access token")
	}
}

func TestRouter_ChangePasswordFlow(t *testing.T) {
	srv := newTestRouter(t)

	resp, _ := postJSON(t, srv.URL+"/v1/auth/register",
		`{"email":"b@x.com","username":"b","password":"Secret123","first_name":"B","last_name":"C"}`, "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: got %d", resp.StatusCode)
	}

	resp, body := postJSON(t, srv.URL+"/v1/auth/login", `{"email":"b@x.com","password":"Secret123"}`, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: got %d", resp.StatusCode)
	}
	access, _ := body["access_token"].(string)

	resp, _ = postJSON(t, srv.URL+"/v1/profile/password",
		`{"current_password":"Secret123","new_password":"Rotated456"}`, access)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("change password: got %d", resp.StatusCode)
	}

	// New password works, old one is rejected.
	resp, _ = postJSON(t, srv.URL+"/v1/auth/login", `{"email":"b@x.com","password":"Rotated456"}`, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login with new password: got %d", resp.StatusCode)
	}
	resp, _ = postJSON(t, srv.URL+"/v1/auth/login", `{"email":"b@x.com","password":"Secret123"}`, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("login with old password: got %d", resp.StatusCode)
	}
}

func TestRouter_AdminRoutesRequireRole(t *testing.T) {
	srv := newTestRouter(t)

	resp, _ := postJSON(t, srv.URL+"/v1/auth/register",
		`{"email":"c@x.com","username":"c","password":"Secret123","first_name":"C","last_name":"D"}`, "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: got %d", resp.StatusCode)
	}
	resp, body := postJSON(t, srv.URL+"/v1/auth/login", `{"email":"c@x.com","password":"Secret123"}`, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: got %d", resp.StatusCode)
	}
	access, _ := body["access_token"].(string)

	// A customer token cannot reach admin routes.
	resp, _ = postJSON(t, srv.URL+"/v1/admin/users/whoever/deactivate", `{}`, access)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for customer on admin route, got %d", resp.StatusCode)
	}
}

func TestRouter_HealthLiveness(t *testing.T) {
	srv := newTestRouter(t)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

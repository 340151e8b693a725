package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/kodbank/kodbank/internal/middleware"
	"github.com/kodbank/kodbank/internal/model"
	"github.com/kodbank/kodbank/internal/repository"
	"github.com/kodbank/kodbank/internal/service"
)

type fakeAccounts struct {
	balance    float64
	balanceErr error
	profile    model.PublicUser
	profileErr error
}

func (f *fakeAccounts) Balance(_ context.Context, uid uint64) (float64, error) {
	return f.balance, f.balanceErr
}

func (f *fakeAccounts) Profile(_ context.Context, uid uint64) (model.PublicUser, error) {
	return f.profile, f.profileErr
}

func TestBalanceHandler(t *testing.T) {
	h := NewUserHandler(&fakeAccounts{balance: 100000})

	rec := doJSON(newEcho(), h.Balance, http.MethodGet, "/user/balance", "", func(c echo.Context) {
		c.Set(middleware.CtxUserID, uint64(7))
		c.Set(middleware.CtxUsername, "alice")
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	if body["balance"].(float64) != 100000 || body["username"] != "alice" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestBalanceHandlerUserGone(t *testing.T) {
	h := NewUserHandler(&fakeAccounts{balanceErr: service.ErrUserNotFound})

	rec := doJSON(newEcho(), h.Balance, http.MethodGet, "/user/balance", "", func(c echo.Context) {
		c.Set(middleware.CtxUserID, uint64(7))
	})

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestProfileHandler(t *testing.T) {
	h := NewUserHandler(&fakeAccounts{profile: model.PublicUser{
		UID: 7, Username: "alice", Email: "a@x.com", Role: "Customer", Balance: 100000,
	}})

	rec := doJSON(newEcho(), h.Profile, http.MethodGet, "/user/profile", "", func(c echo.Context) {
		c.Set(middleware.CtxUserID, uint64(7))
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	user := decode(t, rec)["user"].(map[string]any)
	if user["username"] != "alice" || user["email"] != "a@x.com" {
		t.Fatalf("unexpected user: %v", user)
	}
}

// ---- end-to-end flow over real services with in-memory stores ----

type memUsers struct {
	users  map[string]*model.User
	nextID uint64
}

func (m *memUsers) Create(_ context.Context, u *model.User) (uint64, error) {
	for _, ex := range m.users {
		if ex.Username == u.Username || ex.Email == u.Email {
			return 0, repository.ErrDuplicateUser
		}
	}
	m.nextID++
	clone := *u
	clone.UID = m.nextID
	m.users[clone.Username] = &clone
	return clone.UID, nil
}

func (m *memUsers) Exists(_ context.Context, username, email string) (bool, error) {
	for _, u := range m.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (*model.User, error) {
	if u, ok := m.users[username]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) GetByID(_ context.Context, uid uint64) (*model.User, error) {
	for _, u := range m.users {
		if u.UID == uid {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) Balance(ctx context.Context, uid uint64) (float64, error) {
	u, err := m.GetByID(ctx, uid)
	if err != nil {
		return 0, err
	}
	return u.Balance, nil
}

type memTokens struct{ tokens map[string]uint64 }

func (m *memTokens) Record(_ context.Context, uid uint64, token string, _ time.Time) error {
	m.tokens[token] = uid
	return nil
}

func (m *memTokens) Revoke(_ context.Context, token string) error {
	delete(m.tokens, token)
	return nil
}

func (m *memTokens) RevokeAllForUser(_ context.Context, uid uint64) error {
	for tok, owner := range m.tokens {
		if owner == uid {
			delete(m.tokens, tok)
		}
	}
	return nil
}

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	const secret = "flow-test-secret"

	users := &memUsers{users: make(map[string]*model.User)}
	tokens := &memTokens{tokens: make(map[string]uint64)}
	authSvc := service.NewAuthService(users, tokens, nil, secret, 24*time.Hour, 4, zerolog.Nop())
	acctSvc := service.NewAccountService(users, nil, zerolog.Nop())

	e := newEcho()
	guard := middleware.TokenGuard(secret)
	ah := NewAuthHandler(authSvc, false)
	uh := NewUserHandler(acctSvc)
	e.POST("/auth/register", ah.Register)
	e.POST("/auth/login", ah.Login)
	e.POST("/auth/logout", ah.Logout, guard)
	e.GET("/user/balance", uh.Balance, guard)
	e.GET("/user/profile", uh.Profile, guard)
	return e
}

func serve(e *echo.Echo, method, path, body, bearer string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRegisterLoginBalanceFlow(t *testing.T) {
	e := newTestServer(t)

	// Register.
	rec := serve(e, http.MethodPost, "/auth/register",
		`{"username":"alice","email":"a@x.com","password":"secret1","phone":"555"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if uid := decode(t, rec)["userId"].(float64); uid <= 0 {
		t.Fatalf("register: non-numeric or zero userId")
	}

	// Registering the same natural key twice never yields two 201s.
	rec = serve(e, http.MethodPost, "/auth/register",
		`{"username":"alice","email":"a@x.com","password":"secret1"}`, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate register: expected 409, got %d", rec.Code)
	}

	// Login.
	rec = serve(e, http.MethodPost, "/auth/login",
		`{"username":"alice","password":"secret1"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	loginBody := decode(t, rec)
	token, _ := loginBody["token"].(string)
	if token == "" {
		t.Fatalf("login: no token in body")
	}
	if bal := loginBody["user"].(map[string]any)["balance"].(float64); bal != 100000 {
		t.Fatalf("login: balance = %v, want 100000", bal)
	}

	// Balance without a token is rejected.
	rec = serve(e, http.MethodGet, "/user/balance", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("balance without token: expected 401, got %d", rec.Code)
	}

	// Balance with the issued token.
	rec = serve(e, http.MethodGet, "/user/balance", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("balance: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if bal := decode(t, rec)["balance"].(float64); bal != 100000 {
		t.Fatalf("balance = %v, want 100000", bal)
	}

	// Logout with the token succeeds.
	rec = serve(e, http.MethodPost, "/auth/logout", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", rec.Code)
	}
}

func TestLoginWrongPasswordSameMessageAsUnknownUser(t *testing.T) {
	e := newTestServer(t)
	serve(e, http.MethodPost, "/auth/register",
		`{"username":"alice","email":"a@x.com","password":"secret1"}`, "")

	recWrong := serve(e, http.MethodPost, "/auth/login",
		`{"username":"alice","password":"bad"}`, "")
	recGhost := serve(e, http.MethodPost, "/auth/login",
		`{"username":"ghost","password":"bad"}`, "")

	if recWrong.Code != http.StatusUnauthorized || recGhost.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", recWrong.Code, recGhost.Code)
	}
	var a, b map[string]any
	_ = json.Unmarshal(recWrong.Body.Bytes(), &a)
	_ = json.Unmarshal(recGhost.Body.Bytes(), &b)
	if a["message"] != b["message"] {
		t.Fatalf("messages reveal which part failed: %q vs %q", a["message"], b["message"])
	}
}

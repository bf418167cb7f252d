package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"authgate/internal/domain"
	"authgate/internal/transport/http/handler"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeAuthUsecase implements the unexported authUsecaser interface via method matching.
type fakeAuthUsecase struct {
	register func(ctx context.Context, email, password string) error
	login    func(ctx context.Context, email, password string) (string, error)
}

func (f *fakeAuthUsecase) Register(ctx context.Context, email, password string) error {
	return f.register(ctx, email, password)
}

func (f *fakeAuthUsecase) Login(ctx context.Context, email, password string) (string, error) {
	return f.login(ctx, email, password)
}

func newTestEngine(uc *fakeAuthUsecase) *gin.Engine {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	h := handler.NewAuthHandler(uc, logger)

	r := gin.New()
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

// ---- Register ----

func TestRegister_Created_Returns201(t *testing.T) {
	uc := &fakeAuthUsecase{
		register: func(_ context.Context, email, password string) error {
			if email != "a@b.com" || password != "secret1" {
				t.Errorf("got (%q, %q)", email, password)
			}
			return nil
		},
	}
	w := postJSON(t, newTestEngine(uc), "/register", `{"email":"a@b.com","password":"secret1"}`)

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", w.Code)
	}
}

func TestRegister_InvalidJSON_Returns400(t *testing.T) {
	uc := &fakeAuthUsecase{}
	w := postJSON(t, newTestEngine(uc), "/register", `{bad json}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestRegister_MissingFields_Returns400(t *testing.T) {
	uc := &fakeAuthUsecase{}

	for _, body := range []string{
		`{}`,
		`{"email":"a@b.com"}`,
		`{"password":"secret1"}`,
		`{"email":"not-an-email","password":"secret1"}`,
	} {
		w := postJSON(t, newTestEngine(uc), "/register", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, w.Code)
		}
	}
}

func TestRegister_AlreadyExists_Returns409(t *testing.T) {
	uc := &fakeAuthUsecase{
		register: func(_ context.Context, _, _ string) error {
			return domain.ErrAlreadyExists
		},
	}
	w := postJSON(t, newTestEngine(uc), "/register", `{"email":"a@b.com","password":"secret1"}`)

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

func TestRegister_StorageUnavailable_Returns500WithoutDetail(t *testing.T) {
	uc := &fakeAuthUsecase{
		register: func(_ context.Context, _, _ string) error {
			return domain.ErrStorageUnavailable
		},
	}
	w := postJSON(t, newTestEngine(uc), "/register", `{"email":"a@b.com","password":"secret1"}`)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body["error"] != "Internal server error" {
		t.Errorf("error = %q, internal detail must not leak", body["error"])
	}
}

// ---- Login ----

func TestLogin_Success_ReturnsToken(t *testing.T) {
	uc := &fakeAuthUsecase{
		login: func(_ context.Context, _, _ string) (string, error) {
			return "signed-token", nil
		},
	}
	w := postJSON(t, newTestEngine(uc), "/login", `{"email":"a@b.com","password":"secret1"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body["token"] != "signed-token" {
		t.Errorf("token = %q, want %q", body["token"], "signed-token")
	}
}

func TestLogin_InvalidCredentials_Returns401(t *testing.T) {
	uc := &fakeAuthUsecase{
		login: func(_ context.Context, _, _ string) (string, error) {
			return "", domain.ErrInvalidCredentials
		},
	}
	w := postJSON(t, newTestEngine(uc), "/login", `{"email":"a@b.com","password":"wrong"}`)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body["error"] != "Invalid credentials" {
		t.Errorf("error = %q, must not say which of email/password was wrong", body["error"])
	}
}

func TestLogin_MissingFields_Returns400(t *testing.T) {
	uc := &fakeAuthUsecase{}
	w := postJSON(t, newTestEngine(uc), "/login", `{"email":"a@b.com"}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestLogin_UsecaseError_Returns500(t *testing.T) {
	uc := &fakeAuthUsecase{
		login: func(_ context.Context, _, _ string) (string, error) {
			return "", errors.New("sign token: boom")
		},
	}
	w := postJSON(t, newTestEngine(uc), "/login", `{"email":"a@b.com","password":"secret1"}`)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

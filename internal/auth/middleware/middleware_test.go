package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mind-engage/culturetest/internal/rbac"
)

func editor(t *testing.T) Credentials {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return Credentials{User: "editor", PassHash: string(h)}
}

func TestLoginIssuesEditorToken(t *testing.T) {
	a := NewAuthService("test-secret")
	h := LoginHandler(a, editor(t))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"editor","password":"s3cret"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	c, err := a.Parse(resp.AccessToken)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.Sub != "editor" || c.Role != rbac.RoleEditor {
		t.Fatalf("claims = %+v", c)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	h := LoginHandler(NewAuthService("k"), editor(t))
	for _, body := range []string{
		`{"username":"editor","password":"wrong"}`,
		`{"username":"someone","password":"s3cret"}`,
	} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body)))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: status = %d", body, rec.Code)
		}
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader("{")))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad json: status = %d", rec.Code)
	}
}

func TestJWTMiddleware(t *testing.T) {
	a := NewAuthService("k")
	var gotSub, gotRole string
	h := JWTMiddleware(a)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSub = SubjectFromContext(r.Context())
		gotRole = rbac.RoleFromContext(r.Context())
	}))

	tok, err := a.IssueJWT("editor", rbac.RoleEditor)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/tests", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || gotSub != "editor" || gotRole != rbac.RoleEditor {
		t.Fatalf("status=%d sub=%q role=%q", rec.Code, gotSub, gotRole)
	}

	other, _ := NewAuthService("other-key").IssueJWT("editor", rbac.RoleEditor)
	expired := NewAuthService("k")
	expired.now = func() time.Time { return time.Now().Add(-24 * time.Hour) }
	old, _ := expired.IssueJWT("editor", rbac.RoleEditor)

	for name, header := range map[string]string{
		"missing":   "",
		"wrong key": "Bearer " + other,
		"expired":   "Bearer " + old,
		"garbage":   "Bearer abc.def.ghi",
	} {
		req := httptest.NewRequest(http.MethodGet, "/tests", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: status = %d", name, rec.Code)
		}
	}
}

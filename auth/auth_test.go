package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"recreo/errs"
	"recreo/memstore"
	"recreo/models"
)

func TestIssueAndVerify(t *testing.T) {
	s := NewTokenService("secret", time.Hour)
	u := &models.User{ID: primitive.NewObjectID(), Email: "ana@example.com", Name: "Ana", Nickname: "ana"}

	token, err := s.Issue(u)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	claims, err := s.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.ID != u.ID.Hex() || claims.Email != u.Email || claims.Nickname != "ana" || claims.Name != "Ana" {
		t.Errorf("claims = %+v", claims)
	}

	if _, err := NewTokenService("other", time.Hour).Verify(token); !errs.Is(err, errs.KindAuthentication) {
		t.Errorf("foreign secret accepted: %v", err)
	}
	if _, err := s.Verify("garbage"); !errs.Is(err, errs.KindAuthentication) {
		t.Errorf("garbage accepted: %v", err)
	}
}

func TestVerifyExpired(t *testing.T) {
	s := NewTokenService("secret", time.Hour)
	s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := s.Issue(&models.User{Email: "ana@example.com"})
	if err != nil {
		t.Fatal(err)
	}
	s.now = time.Now
	if _, err := s.Verify(token); errs.Message(err) != "jwt expired" {
		t.Errorf("Verify() = %v, want expired", err)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	h := NewHandler(memstore.NewUsers(), NewTokenService("secret", time.Hour))

	if _, err := h.Register(ctx, "Ana", "ana@example.com", "ana", "geslo123"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	tests := []struct {
		name     string
		register bool
		args     [4]string
		kind     errs.Kind
		msg      string
	}{
		{"register missing field", true, [4]string{"Ana", "x@example.com", "", "p"}, errs.KindValidation, AllFieldsMsg},
		{"register bad email", true, [4]string{"Ana", "nope", "x", "p"}, errs.KindValidation, InvalidEmailMsg},
		{"register duplicate email", true, [4]string{"Ana", "ana@example.com", "other", "p"}, errs.KindConflict, models.DuplicateEmailMsg},
		{"register duplicate nickname", true, [4]string{"Ana", "other@example.com", "ana", "p"}, errs.KindConflict, models.DuplicateNicknameMsg},
		{"login missing password", false, [4]string{"", "ana@example.com", "", ""}, errs.KindValidation, AllFieldsMsg},
		{"login unknown user", false, [4]string{"", "bor@example.com", "", "p"}, errs.KindAuthentication, IncorrectUserMsg},
		{"login wrong password", false, [4]string{"", "ana@example.com", "", "wrong"}, errs.KindAuthentication, IncorrectPasswordMsg},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			if tt.register {
				_, err = h.Register(ctx, tt.args[0], tt.args[1], tt.args[2], tt.args[3])
			} else {
				_, err = h.Login(ctx, tt.args[1], tt.args[3])
			}
			if errs.KindOf(err) != tt.kind || errs.Message(err) != tt.msg {
				t.Errorf("err = %v (kind %v), want %v %q", err, errs.KindOf(err), tt.kind, tt.msg)
			}
		})
	}

	token, err := h.Login(ctx, "ana@example.com", "geslo123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	claims, err := h.tokens.Verify(token)
	if err != nil || claims.Nickname != "ana" {
		t.Errorf("login token claims = %+v, %v", claims, err)
	}
}

func TestRegisterAndLoginFormBodies(t *testing.T) {
	h := NewHandler(memstore.NewUsers(), NewTokenService("secret", time.Hour))

	post := func(handler http.HandlerFunc, form url.Values) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		handler(rec, req)
		return rec
	}

	rec := post(h.RegisterUser, url.Values{
		"name": {"Ana"}, "email": {"ana@example.com"}, "nickname": {"ana"}, "password": {"geslo123"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("register: status = %d, body = %s", rec.Code, rec.Body)
	}

	rec = post(h.LoginUser, url.Values{"email": {"ana@example.com"}, "password": {"geslo123"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: status = %d, body = %s", rec.Code, rec.Body)
	}
	var body tokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	claims, err := h.tokens.Verify(body.Token)
	if err != nil || claims.Email != "ana@example.com" {
		t.Errorf("claims = %+v, %v", claims, err)
	}

	rec = post(h.LoginUser, url.Values{"email": {"ana@example.com"}, "password": {"wrong"}})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: status = %d", rec.Code)
	}
}

package credentials

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStatic(t *testing.T) {
	if _, err := Static("").Token(context.Background()); !errors.Is(err, ErrNoCredential) {
		t.Errorf("empty static: err = %v, want ErrNoCredential", err)
	}
	tok, err := Static("abc").Token(context.Background())
	if err != nil || tok != "abc" {
		t.Errorf("Static(abc) = %q, %v", tok, err)
	}
}

func TestEnv(t *testing.T) {
	t.Setenv("EXPENSEDASH_TEST_TOKEN", "")
	if _, err := Env("EXPENSEDASH_TEST_TOKEN").Token(context.Background()); !errors.Is(err, ErrNoCredential) {
		t.Errorf("unset env: err = %v", err)
	}
	t.Setenv("EXPENSEDASH_TEST_TOKEN", " tok ")
	tok, err := Env("EXPENSEDASH_TEST_TOKEN").Token(context.Background())
	if err != nil || tok != "tok" {
		t.Errorf("Env = %q, %v", tok, err)
	}
}

func TestChain(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name    string
		chain   Chain
		want    string
		wantErr error
	}{
		{"empty", Chain{}, "", ErrNoCredential},
		{"first wins", Chain{Static("a"), Static("b")}, "a", nil},
		{"skips missing", Chain{Static(""), nil, Static("b")}, "b", nil},
		{"hard error stops", Chain{ProviderFunc(func(context.Context) (string, error) { return "", boom }), Static("b")}, "", boom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.chain.Token(context.Background())
			if !errors.Is(err, tt.wantErr) && !(err == nil && tt.wantErr == nil) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("token = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHeaderMiddleware(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer xyz", "xyz", true},
		{"bearer  xyz ", "xyz", true},
		{"Basic xyz", "", false},
		{"Bearer ", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		var got string
		var ok bool
		h := HeaderMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok = FromContext(r.Context())
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		h.ServeHTTP(httptest.NewRecorder(), req)
		if got != tt.want || ok != tt.ok {
			t.Errorf("header %q: got (%q, %v), want (%q, %v)", tt.header, got, ok, tt.want, tt.ok)
		}
	}

	tok, err := ContextToken{}.Token(WithToken(context.Background(), "ctx"))
	if err != nil || tok != "ctx" {
		t.Errorf("ContextToken = %q, %v", tok, err)
	}
}

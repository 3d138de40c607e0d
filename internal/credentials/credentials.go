// Package credentials supplies bearer tokens to the expense API client.
//
// The client never reads ambient storage itself: a Provider is injected and
// asked for a token on every request.
package credentials

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
)

// ErrNoCredential is returned when a provider has no token to offer.
// Requests are then sent without an Authorization header.
var ErrNoCredential = errors.New("no credential available")

// Provider returns the bearer token for the current user.
type Provider interface {
	Token(ctx context.Context) (string, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context) (string, error)

func (f ProviderFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// Static always returns the same token. An empty token yields ErrNoCredential.
type Static string

func (s Static) Token(context.Context) (string, error) {
	if strings.TrimSpace(string(s)) == "" {
		return "", ErrNoCredential
	}
	return string(s), nil
}

// Env reads the token from an environment variable on every call.
type Env string

func (e Env) Token(context.Context) (string, error) {
	v := strings.TrimSpace(os.Getenv(string(e)))
	if v == "" {
		return "", ErrNoCredential
	}
	return v, nil
}

type ctxKey struct{}

// WithToken returns a context carrying a per-request token.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ctxKey{}, token)
}

// FromContext returns the token stored by WithToken.
func FromContext(ctx context.Context) (string, bool) {
	tok, ok := ctx.Value(ctxKey{}).(string)
	return tok, ok && tok != ""
}

// ContextToken is a Provider reading the token stored by WithToken.
type ContextToken struct{}

func (ContextToken) Token(ctx context.Context) (string, error) {
	if tok, ok := FromContext(ctx); ok {
		return tok, nil
	}
	return "", ErrNoCredential
}

// BearerToken extracts the token from an "Authorization: Bearer x" header.
func BearerToken(r *http.Request) (string, bool) {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return "", false
	}
	tok := strings.TrimSpace(h[7:])
	return tok, tok != ""
}

// HeaderMiddleware copies an inbound bearer token into the request context
// so ContextToken can forward it to the backend.
func HeaderMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tok, ok := BearerToken(r); ok {
			r = r.WithContext(WithToken(r.Context(), tok))
		}
		next.ServeHTTP(w, r)
	})
}

// Chain tries each provider in order and returns the first token found.
// Errors other than ErrNoCredential stop the chain.
type Chain []Provider

func (c Chain) Token(ctx context.Context) (string, error) {
	for _, p := range c {
		if p == nil {
			continue
		}
		tok, err := p.Token(ctx)
		if err == nil {
			return tok, nil
		}
		if !errors.Is(err, ErrNoCredential) {
			return "", err
		}
	}
	return "", ErrNoCredential
}

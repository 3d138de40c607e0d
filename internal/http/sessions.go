package http

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"expensedash/internal/cache"
	"expensedash/internal/credentials"
	"expensedash/internal/dashboard"
	"expensedash/internal/expenseapi"
	applog "expensedash/internal/log"
)

// sessionStore keeps one dashboard View per bearer token. Entries are keyed
// by a SHA-256 fingerprint so raw tokens never sit in the cache. A View
// leaving the cache is closed, which discards any cycle still in flight.
type sessionStore struct {
	views   *cache.LRUCache[*dashboard.View]
	api     *expenseapi.Client
	metrics dashboard.Metrics
	logger  *applog.Logger
}

func newSessionStore(api *expenseapi.Client, size int, ttl time.Duration, metrics dashboard.Metrics, logger *applog.Logger) *sessionStore {
	s := &sessionStore{
		api:     api,
		metrics: metrics,
		logger:  logger,
	}
	s.views = cache.NewLRUCache[*dashboard.View](size, ttl).OnEvict(func(key string, v *dashboard.View) {
		v.Close()
		s.logger.Debug("Dashboard session closed", applog.FieldSession, shortKey(key))
	})
	return s
}

// sessionKey fingerprints a token. The empty token maps to its own session.
func sessionKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func shortKey(key string) string {
	if len(key) > 12 {
		return key[:12]
	}
	return key
}

// view returns the live View for token, creating one on first use.
func (s *sessionStore) view(token string) *dashboard.View {
	return s.views.GetOrCreate(sessionKey(token), func() *dashboard.View {
		client := s.api.WithCredentials(credentials.Static(token))
		agg := dashboard.NewAggregator(client,
			dashboard.WithLimit(client),
			dashboard.WithLogger(s.logger),
			dashboard.WithMetrics(s.metrics))
		return dashboard.NewView(agg)
	})
}

// drop disposes the View for token, if any.
func (s *sessionStore) drop(token string) {
	s.views.Delete(sessionKey(token))
}

func (s *sessionStore) size() int {
	return s.views.Size()
}

// requestToken resolves the credential for this request: the inbound bearer
// first, then the server's fallback provider. No credential yields "".
func (srv *Server) requestToken(ctx context.Context) string {
	tok, err := srv.creds.Token(ctx)
	if err != nil {
		return ""
	}
	return tok
}

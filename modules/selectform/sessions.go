package selectform

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/depselect/pkg/cache"
	"github.com/dmitrymomot/depselect/pkg/cookie"
	"github.com/dmitrymomot/depselect/pkg/logger"
	"github.com/dmitrymomot/depselect/pkg/metrics"
	"github.com/dmitrymomot/depselect/svc/selection"
)

// sessionStore keeps one Coordinator per browser session. Idle sessions
// expire after the configured TTL; evicted coordinators are closed.
type sessionStore struct {
	cookies    *cookie.Manager
	cookieName string
	coords     *cache.Cache[string, *selection.Coordinator]
	create     func(id string) *selection.Coordinator
	metrics    *metrics.Metrics
	log        *slog.Logger

	mu sync.Mutex
}

func newSessionStore(cfg Config, cookies *cookie.Manager, create func(id string) *selection.Coordinator, m *metrics.Metrics, log *slog.Logger) *sessionStore {
	s := &sessionStore{
		cookies:    cookies,
		cookieName: cfg.CookieName,
		coords: cache.New[string, *selection.Coordinator](
			cache.WithTTL(cfg.SessionTTL),
			cache.WithCapacity(cfg.MaxSessions),
		),
		create:  create,
		metrics: m,
		log:     log,
	}
	s.coords.SetEvictCallback(s.evicted)
	return s
}

// acquire returns the coordinator of the request's session, starting a new
// session when the cookie is missing, forged or expired.
func (s *sessionStore) acquire(w http.ResponseWriter, r *http.Request) *selection.Coordinator {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.cookies.GetSigned(r, s.cookieName)
	if err == nil {
		if c, ok := s.coords.Get(id); ok {
			s.coords.Put(id, c)
			return c
		}
	} else if !errors.Is(err, cookie.ErrNotFound) {
		s.log.WarnContext(r.Context(), "rejected session cookie", logger.Error(err))
	}

	id = uuid.NewString()
	c := s.create(id)
	s.coords.Put(id, c)
	if s.metrics != nil {
		s.metrics.SessionsActive.Inc()
	}
	s.cookies.SetSigned(w, s.cookieName, id)
	s.log.DebugContext(r.Context(), "session started", logger.SessionID(id))
	return c
}

// lookup returns the coordinator of an existing session without creating one.
func (s *sessionStore) lookup(r *http.Request) (*selection.Coordinator, bool) {
	id, err := s.cookies.GetSigned(r, s.cookieName)
	if err != nil {
		return nil, false
	}
	return s.coords.Get(id)
}

func (s *sessionStore) evicted(id string, c *selection.Coordinator) {
	c.Close()
	if s.metrics != nil {
		s.metrics.SessionsActive.Dec()
	}
	s.log.Debug("session closed", logger.SessionID(id))
}

func (s *sessionStore) len() int { return s.coords.Len() }

func (s *sessionStore) runJanitor(ctx context.Context, interval time.Duration) {
	s.coords.RunJanitor(ctx, interval)
}

func (s *sessionStore) close() { s.coords.Clear() }

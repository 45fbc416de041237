package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"astrocadet/internal/security"
	"astrocadet/internal/session"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const SessionContextKey ContextKey = "session"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	sessions     *session.Manager
	signer       *security.TokenSigner
	inputLimiter *security.RateLimiter
	newLimiter   *security.RateLimiter
}

// NewMiddleware creates a new middleware instance. inputLimiter is keyed by
// session id, newLimiter by client IP.
func NewMiddleware(sessions *session.Manager, signer *security.TokenSigner, inputLimiter, newLimiter *security.RateLimiter) *Middleware {
	return &Middleware{
		sessions:     sessions,
		signer:       signer,
		inputLimiter: inputLimiter,
		newLimiter:   newLimiter,
	}
}

// WithSession attaches the caller's game session to the request. A missing,
// invalid or expired token starts a new session and sets a fresh cookie,
// subject to the per-IP session creation limit.
func (m *Middleware) WithSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := m.lookup(r)
		if s == nil {
			ip := security.GetClientIP(r)
			if !m.newLimiter.Allow(ip) {
				log.Printf("Warning: refusing new session for %s, creation limit reached", ip)
				respondWithError(w, http.StatusTooManyRequests, ErrTooManyRequests, "", nil)
				return
			}
			s = m.sessions.Create()
			token, expires, err := m.signer.Sign(s.ID())
			if err != nil {
				respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error signing session token", err)
				return
			}
			http.SetCookie(w, security.CreateSessionCookie(r, token, expires))
			log.Printf("Started session %s", s.ID())
		}

		ctx := context.WithValue(r.Context(), SessionContextKey, s)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Middleware) lookup(r *http.Request) *session.Session {
	cookie, err := r.Cookie(security.SessionCookieName)
	if err != nil {
		return nil
	}
	id, err := m.signer.Verify(cookie.Value)
	if err != nil {
		return nil
	}
	s, ok := m.sessions.Get(id)
	if !ok {
		return nil
	}
	return s
}

// LimitInput throttles game input per session
func (m *Middleware) LimitInput(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := GetSessionFromContext(r.Context())
		if s == nil {
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "input limiter mounted without a session", nil)
			return
		}
		if !m.inputLimiter.Allow(s.ID()) {
			respondWithError(w, http.StatusTooManyRequests, ErrTooManyRequests, "", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// GetSessionFromContext retrieves the game session from the request context
func GetSessionFromContext(ctx context.Context) *session.Session {
	s, ok := ctx.Value(SessionContextKey).(*session.Session)
	if !ok {
		return nil
	}
	return s
}

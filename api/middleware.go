package api

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/garnizeh/ustabul/internal/auth"
	"github.com/garnizeh/ustabul/pkg/models"
)

type ctxKey string

const (
	CtxUserID ctxKey = "user_id"
	CtxRole   ctxKey = "role"
)

// package-level logger used by middleware and helpers; can be set via SetLogger from caller
var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger installs a logger for the api package. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// Caller is the authenticated account behind a request.
type Caller struct {
	UserID string
	Role   models.Role
}

func callerFrom(ctx context.Context) (Caller, bool) {
	id, ok := ctx.Value(CtxUserID).(string)
	if !ok || id == "" {
		return Caller{}, false
	}
	role, _ := ctx.Value(CtxRole).(models.Role)
	return Caller{UserID: id, Role: role}, true
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote", r.RemoteAddr),
			slog.Int("status", rec.status),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

// NewCORS returns a middleware allowing the given origins. "*" allows any.
func NewCORS(origins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})
	return c.Handler
}

func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic", slog.Any("err", err), slog.String("path", r.URL.Path))
				writeJSON(w, errorResponse{Error: "internal server error"}, http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// JWTAuthMiddleware rejects requests without a valid bearer token and puts
// the caller's id and role into the request context.
func JWTAuthMiddleware(issuer *auth.Issuer) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSON(w, errorResponse{Error: "missing Authorization header"}, http.StatusUnauthorized)
				return
			}

			tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
			tokenString = strings.TrimSpace(tokenString)
			if !ok || tokenString == "" {
				writeJSON(w, errorResponse{Error: "invalid Authorization header"}, http.StatusUnauthorized)
				return
			}

			claims, err := issuer.Parse(tokenString)
			if err != nil {
				writeJSON(w, errorResponse{Error: auth.ErrInvalidToken.Error()}, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), CtxUserID, claims.Subject)
			ctx = context.WithValue(ctx, CtxRole, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requireRole wraps h so only callers holding one of roles reach it.
// It must run behind JWTAuthMiddleware.
func requireRole(h http.HandlerFunc, roles ...models.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := callerFrom(r.Context())
		if !ok {
			writeJSON(w, errorResponse{Error: "unauthorized"}, http.StatusUnauthorized)
			return
		}
		for _, role := range roles {
			if c.Role == role {
				h(w, r)
				return
			}
		}
		writeJSON(w, errorResponse{Error: models.ErrForbidden.Error()}, http.StatusForbidden)
	}
}

// mustCaller returns the caller set by JWTAuthMiddleware, writing 401 when absent.
func mustCaller(w http.ResponseWriter, r *http.Request) (Caller, bool) {
	c, ok := callerFrom(r.Context())
	if !ok {
		writeJSON(w, errorResponse{Error: "unauthorized"}, http.StatusUnauthorized)
	}
	return c, ok
}

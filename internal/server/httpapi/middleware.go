package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/expensekeeper/internal/common"
)

type ctxKey string

const userIDKey ctxKey = "userID"

func userIDFrom(ctx context.Context) int64 {
	id, _ := ctx.Value(userIDKey).(int64)
	return id
}

// requireAuth accepts "Authorization: Bearer <token>" and puts the user id
// into the request context.
func (s *HTTPServer) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get(common.AuthorizationHeaderName), common.BearerPrefix)
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "Missing token")
			return
		}

		userID, err := s.users.UserID(token)
		if err != nil {
			s.logger.Info(r.Context(), "rejected token", "error", err, "request_id", middleware.GetReqID(r.Context()))
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	})
}

func (s *HTTPServer) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Debug(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

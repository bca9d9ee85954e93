package middleware

import (
	"net/http"
	"runtime/debug"

	log "github.com/sirupsen/logrus"

	"task-board-backend/pkg/utils"
)

// Recovery converts panics into 500 responses instead of dropping the
// connection.
func Recovery(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.WithFields(log.Fields{
						"panic": rec,
						"path":  r.URL.Path,
						"stack": string(debug.Stack()),
					}).Error("panic recovered")
					utils.WriteInternalServerErrorResponse(w, "internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

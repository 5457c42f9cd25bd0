package httpx

import (
	"log"
	"net/http"
	"runtime/debug"
)

func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("panic recovered: request_id=%s error=%v stack=%s", RequestIDFrom(r), err, string(debug.Stack()))

				var wroteHeader bool
				if rw, ok := w.(*responseWriter); ok {
					wroteHeader = rw.wroteHeader()
				}
				if !wroteHeader {
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}
		}()
		next.ServeHTTP(w, r)
	})
}

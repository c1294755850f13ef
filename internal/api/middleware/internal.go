package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/m04kA/SMC-BookingEngine/internal/api/handlers"
	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

const (
	HeaderInternalToken = "X-Internal-Token"

	msgInvalidInternalToken = "некорректный внутренний токен"
)

// InternalToken защищает маршруты коллабораторов (платежи, планировщик).
// Запрос с верным токеном выполняется от имени системы.
func InternalToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(HeaderInternalToken)
			if token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				handlers.RespondUnauthorized(w, msgInvalidInternalToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), domain.SystemActor())))
		})
	}
}

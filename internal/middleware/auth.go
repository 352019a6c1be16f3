package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// CookieName — имя cookie с токеном.
const CookieName = "auth_token"

type ctxKey struct{}

// TokenParser проверяет токен и возвращает id пользователя.
type TokenParser interface {
	ParseToken(token string) (int64, error)
}

// WithAuth кладёт id пользователя в контекст, если запрос несёт валидный токен
// (заголовок Authorization: Bearer или cookie auth_token). Без токена запрос идёт дальше анонимно.
func WithAuth(parser TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			userID, err := parser.ParseToken(token)
			if err != nil {
				logger.Debugw("Rejected auth token", "err", err)
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, userID)))
		})
	}
}

// RequireAuth отвечает 401, если WithAuth не нашёл пользователя.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUserIDFromContext(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}

// GetUserIDFromContext возвращает id пользователя, положенный WithAuth.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ctxKey{}).(int64)
	return id, ok
}

// SetLoginCookie выставляет cookie с токеном на время его жизни.
func SetLoginCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearLoginCookie удаляет cookie с токеном.
func ClearLoginCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

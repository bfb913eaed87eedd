package http

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type contextKey string

const buyerIDKey contextKey = "buyer_id"

// buyerCookieName holds the anonymous buyer token. A real deployment would
// replace the token with the authenticated user name after login.
const buyerCookieName = "go_shop_buyer"

// BuyerIDMiddleware resolves the buyer identity for the request: the value
// of the buyer cookie when it carries a valid token, otherwise a freshly
// generated one that is set on the response for the next ten years.
func BuyerIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var buyerID string
		if cookie, err := r.Cookie(buyerCookieName); err == nil {
			if _, parseErr := uuid.Parse(cookie.Value); parseErr == nil {
				buyerID = cookie.Value
			}
		}
		if buyerID == "" {
			buyerID = uuid.New().String()
			http.SetCookie(w, &http.Cookie{
				Name:     buyerCookieName,
				Value:    buyerID,
				Path:     "/",
				Expires:  time.Now().AddDate(10, 0, 0),
				HttpOnly: true,
			})
		}

		ctx := context.WithValue(r.Context(), buyerIDKey, buyerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func getBuyerIDFromContext(ctx context.Context) string {
	if buyerID, ok := ctx.Value(buyerIDKey).(string); ok {
		return buyerID
	}
	return ""
}

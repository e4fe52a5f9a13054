package middleware

import (
	"context"
	"net/http"

	"github.com/iamasit07/tic-tac-toe/backend/internal/service/stats"
	"github.com/iamasit07/tic-tac-toe/backend/pkg/auth"
	"github.com/iamasit07/tic-tac-toe/backend/pkg/httputil"
	"github.com/iamasit07/tic-tac-toe/backend/pkg/uid"
	"go.uber.org/zap"
)

type identityKey struct{}

// TokenValidator checks an access token.
type TokenValidator interface {
	Authenticate(token string) (*auth.Claims, error)
}

func WithIdentity(ctx context.Context, id stats.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFrom(ctx context.Context) (stats.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(stats.Identity)
	return id, ok
}

// Identify resolves who is calling: a signed-in account from the auth
// token, otherwise a guest from the guest cookie. A caller with neither
// gets a fresh guest id.
func Identify(tokens TokenValidator, cookies httputil.CookieOptions, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id stats.Identity

			if token, err := httputil.GetTokenFromRequest(r); err == nil {
				claims, err := tokens.Authenticate(token)
				if err != nil {
					cookies.ClearAuthCookie(w)
				} else {
					id.UserID = claims.UserID
					id.Nickname = claims.Nickname
				}
			}

			guestID := httputil.GetGuestID(r)
			if !uid.IsGuestID(guestID) {
				guestID = uid.GenerateGuestID()
				cookies.SetGuestCookie(w, guestID)
				logger.Debugw("[AUTH] new guest", "guest", guestID)
			}
			id.GuestID = guestID

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

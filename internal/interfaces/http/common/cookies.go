package common

import (
	"net/http"
	"time"

	"github.com/taka-shaka/matching-site-sub001/internal/auth"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
)

// refreshTokenMaxAge matches the identity provider's refresh token lifetime.
const refreshTokenMaxAge = 30 * 24 * time.Hour

// SetSessionCookies stores the token pair the way the provider's browser SDK does.
func SetSessionCookies(w http.ResponseWriter, session *domain.IdentitySession, secure bool) {
	accessAge := session.ExpiresIn
	if accessAge <= 0 {
		accessAge = int(time.Hour.Seconds())
	}
	http.SetCookie(w, sessionCookie(auth.AccessTokenCookie, session.AccessToken, accessAge, secure))
	if session.RefreshToken != "" {
		http.SetCookie(w, sessionCookie(auth.RefreshTokenCookie, session.RefreshToken, int(refreshTokenMaxAge.Seconds()), secure))
	}
}

// ClearSessionCookies expires both session cookies.
func ClearSessionCookies(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, sessionCookie(auth.AccessTokenCookie, "", -1, secure))
	http.SetCookie(w, sessionCookie(auth.RefreshTokenCookie, "", -1, secure))
}

func sessionCookie(name, value string, maxAge int, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

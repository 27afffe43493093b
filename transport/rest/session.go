package rest

import (
	"net/http"
	"time"
)

// Sessions - reads and writes the session cookie shared by the page, the API and the socket.
type Sessions struct {
	cookieName string
	ttl        time.Duration
}

func NewSessions(cookieName string, ttl time.Duration) *Sessions {
	return &Sessions{
		cookieName: cookieName,
		ttl:        ttl,
	}
}

// ID - returns the session id from the request cookie, or "" when there is none.
func (that *Sessions) ID(req *http.Request) string {
	cookie, err := req.Cookie(that.cookieName)
	if err != nil {
		return ""
	}

	return cookie.Value
}

// Set - writes the cookie, renewing its expiry.
func (that *Sessions) Set(writer http.ResponseWriter, id string) {
	http.SetCookie(writer, &http.Cookie{
		Name:     that.cookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(that.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear - expires the cookie in the browser.
func (that *Sessions) Clear(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     that.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

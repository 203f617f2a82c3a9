package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// ClientCookieName holds the browser's client id. Each client id gets its
// own slice of local storage.
const ClientCookieName = "contractflow_client"

const clientCookieMaxAge = 365 * 24 * time.Hour

// clientID returns the id carried by r's cookie. ok is false when the
// cookie is absent or malformed.
func clientID(r *http.Request) (id string, ok bool) {
	c, err := r.Cookie(ClientCookieName)
	if err != nil {
		return "", false
	}
	parsed, err := uuid.Parse(c.Value)
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}

// ensureClientID returns r's client id, issuing a new cookie when there is
// none.
func (s *Server) ensureClientID(w http.ResponseWriter, r *http.Request) string {
	if id, ok := clientID(r); ok {
		return id
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     ClientCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(clientCookieMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.config.SecureCookies,
	})
	return id
}

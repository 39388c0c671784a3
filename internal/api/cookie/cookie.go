// Package cookie reads and writes the session and flash cookies.
package cookie

import (
	"encoding/base64"
	"net/http"
	"strings"
	"time"
)

const (
	// SessionName carries the signed session token.
	SessionName = "todo_session"
	// FlashName carries a one-time notice shown on the next page render.
	FlashName = "todo_flash"

	maxFlashLen = 200
)

// ReadSession returns the trimmed session token when present.
func ReadSession(r *http.Request) (string, bool) {
	c, err := r.Cookie(SessionName)
	if err != nil {
		return "", false
	}
	value := strings.TrimSpace(c.Value)
	if value == "" {
		return "", false
	}
	return value, true
}

// WriteSession sets the session cookie until expires.
func WriteSession(w http.ResponseWriter, r *http.Request, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   isHTTPS(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSession expires the session cookie.
func ClearSession(w http.ResponseWriter, r *http.Request) {
	expire(w, r, SessionName)
}

// WriteFlash stores msg for the next page render.
func WriteFlash(w http.ResponseWriter, r *http.Request, msg string) {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return
	}
	if len(msg) > maxFlashLen {
		msg = msg[:maxFlashLen]
	}
	http.SetCookie(w, &http.Cookie{
		Name:     FlashName,
		Value:    base64.RawURLEncoding.EncodeToString([]byte(msg)),
		Path:     "/",
		HttpOnly: true,
		Secure:   isHTTPS(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// ReadAndClearFlash returns the pending notice, if any, and expires it.
func ReadAndClearFlash(w http.ResponseWriter, r *http.Request) (string, bool) {
	c, err := r.Cookie(FlashName)
	if err != nil {
		return "", false
	}
	expire(w, r, FlashName)

	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil || len(raw) == 0 {
		return "", false
	}
	return string(raw), true
}

func expire(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   isHTTPS(r),
		SameSite: http.SameSiteLaxMode,
	})
}

func isHTTPS(r *http.Request) bool {
	if r == nil {
		return false
	}
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

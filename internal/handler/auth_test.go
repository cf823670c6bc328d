package handler

import (
	"testing"
	"time"
)

// The session cookie must expire with the JWT: 24 hours, expressed in the
// whole seconds that Set-Cookie's Max-Age attribute requires.
func TestSessionCookieMaxAge(t *testing.T) {
	want := int((24 * time.Hour) / time.Second)
	if sessionCookieMaxAge != want {
		t.Errorf("sessionCookieMaxAge = %d, want %d", sessionCookieMaxAge, want)
	}
}

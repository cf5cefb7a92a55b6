package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/nugudi/nugudi-gateway/sessions"
)

// apiResponse is the envelope every BFF JSON route answers with.
type apiResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, apiResponse{Success: false, Error: msg})
}

// cookieValue returns the named cookie from the incoming request, or "".
func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

func sessionCookie(r *http.Request, f sessions.Field) string {
	return cookieValue(r, string(f))
}

// loginURL is the login page with callbackUrl pointing back at path. The
// login page itself never becomes its own callback.
func loginURL(path string) string {
	if path == "" || path == RouteLogin {
		return RouteLogin
	}
	return RouteLogin + "?" + callbackURLParam + "=" + url.QueryEscape(path)
}

// safeReturnPath accepts only same-origin absolute paths.
func safeReturnPath(p string) string {
	if p == "" || !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return "/"
	}
	return p
}

func isAuthPage(path string) bool {
	return path == RouteLogin || path == RouteSignup ||
		strings.HasPrefix(path, RouteLogin+"/") || strings.HasPrefix(path, RouteSignup+"/")
}

func isPublicPath(path string) bool {
	for _, prefix := range publicPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix) && (strings.HasSuffix(prefix, "/") || path[len(prefix)] == '/') {
			return true
		}
	}
	return false
}

// redirectSuccess sends a browser on after a form post.
func redirectSuccess(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// redirectWithError sends a browser back to path with an error message.
func redirectWithError(w http.ResponseWriter, r *http.Request, path, errorMsg string) {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	http.Redirect(w, r, path+sep+"error="+url.QueryEscape(errorMsg), http.StatusSeeOther)
}

// setRegistrationCookie stores the upstream registration token between the
// OAuth callback and the signup form. maxAge < 0 deletes it.
func (s *Server) setRegistrationCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     registrationTokenCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

// withSessionCookies returns r's Cookie header with the session fields
// replaced by sess, so that handlers behind the guard see the refreshed values.
func withSessionCookies(r *http.Request, sess sessions.Session) string {
	replaced := make(map[string]bool, len(sessions.Fields))
	var parts []string
	for _, c := range r.Cookies() {
		f := sessions.Field(c.Name)
		if v := sess.Get(f); v != "" {
			if replaced[c.Name] {
				continue
			}
			replaced[c.Name] = true
			parts = append(parts, c.Name+"="+v)
			continue
		}
		parts = append(parts, c.Name+"="+c.Value)
	}
	for _, f := range sessions.Fields {
		if v := sess.Get(f); v != "" && !replaced[string(f)] {
			parts = append(parts, string(f)+"="+v)
		}
	}
	return strings.Join(parts, "; ")
}

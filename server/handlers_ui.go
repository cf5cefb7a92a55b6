package server

import (
	"fmt"
	"html/template"
	"net/http"
	"net/http/httputil"
	"net/url"
	"sort"
	"time"

	"github.com/nugudi/nugudi-gateway/sessions"
	"github.com/rs/zerolog/log"
)

// newPageHandler forwards page requests to the external renderer when one is
// configured. The guard has already put the current access token in the
// x-access-token header. Without a renderer, minimal built-in pages are served.
func (s *Server) newPageHandler(rendererURL string) (http.Handler, error) {
	if rendererURL == "" {
		return s.builtinPages(), nil
	}

	target, err := url.Parse(rendererURL)
	if err != nil {
		return nil, fmt.Errorf("[Server newPageHandler] invalid renderer url: %w", err)
	}
	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.Transport = &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		ResponseHeaderTimeout: 30 * time.Second,
	}
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.Err(err).Str("path", r.URL.Path).Msg("Renderer request failed")
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
	}
	return proxy, nil
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="ko">
<head><meta charset="utf-8"><title>{{.AppName}}</title></head>
<body>
<main>
<h1>{{.AppName}}</h1>
{{if .Error}}<p role="alert">{{.Error}}</p>{{end}}
{{if eq .Page "login"}}
  <h2>로그인</h2>
  <ul>
  {{range .Providers}}<li><a href="/api/auth/{{.}}/authorize?callbackUrl={{$.CallbackURL}}">{{.}}</a></li>{{end}}
  </ul>
{{else if eq .Page "signup"}}
  <h2>회원가입</h2>
  <form method="post" action="/api/auth/signup">
    <label>닉네임 <input name="nickname" minlength="2" maxlength="20" required></label>
    <button type="submit">가입하기</button>
  </form>
{{else}}
  <p>{{.Path}}</p>
  {{if .SignedIn}}
  <form method="post" action="/api/auth/logout"><button type="submit">로그아웃</button></form>
  {{end}}
{{end}}
</main>
</body>
</html>
`))

type pageData struct {
	AppName     string
	Page        string
	Path        string
	Error       string
	CallbackURL string
	Providers   []string
	SignedIn    bool
}

func (s *Server) builtinPages() http.HandlerFunc {
	providers := make([]string, 0, len(s.providers))
	for name := range s.providers {
		providers = append(providers, name)
	}
	sort.Strings(providers)

	return func(w http.ResponseWriter, r *http.Request) {
		data := pageData{
			AppName:  s.config.GetAppName(),
			Page:     "home",
			Path:     r.URL.Path,
			Error:    r.URL.Query().Get("error"),
			SignedIn: r.Header.Get(sessions.HeaderAccessToken) != "",
		}
		switch r.URL.Path {
		case RouteLogin:
			data.Page = "login"
			data.Providers = providers
			data.CallbackURL = safeReturnPath(r.URL.Query().Get(callbackURLParam))
		case RouteSignup:
			data.Page = "signup"
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		if err := pageTemplate.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render page")
		}
	}
}

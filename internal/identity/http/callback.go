package http

import (
	"html/template"
	"net/http"

	"github.com/dayplanr/identity/internal/identity/domain"
	"github.com/dayplanr/identity/internal/identity/provider"
)

// callbackPage relays the provider redirect back to the window that opened
// the popup. The message targets the configured web origin explicitly so a
// hijacked opener cannot read it, then the popup closes itself.
var callbackPage = template.Must(template.New("callback").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Signing in...</title></head>
<body>
<script>
(function () {
	var payload = {
		source: "social-login-callback",
		provider: {{.Provider}},
		success: {{.Success}},
		code: {{.Code}},
		state: {{.State}},
		error: {{.Error}}
	};
	if (window.opener) {
		window.opener.postMessage(payload, {{.TargetOrigin}});
	}
	window.close();
})();
</script>
</body>
</html>
`))

type callbackData struct {
	Provider     string
	Success      bool
	Code         string
	State        string
	Error        string
	TargetOrigin string
}

// CallbackHandler serves GET /v1/auth/callback/{provider}, the same-origin
// page the provider redirects the popup to.
type CallbackHandler struct {
	Providers provider.Registry
	WebOrigin string
}

func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("provider")
	if _, ok := h.Providers.Get(domain.ProviderType(name)); !ok {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	data := callbackData{
		Provider:     name,
		Code:         q.Get("code"),
		State:        q.Get("state"),
		Error:        q.Get("error"),
		TargetOrigin: h.WebOrigin,
	}
	data.Success = data.Error == "" && data.Code != ""

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_ = callbackPage.Execute(w, data)
}

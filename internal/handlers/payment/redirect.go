package payment

import (
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

// RedirectConfig holds the terminal page URLs the browser is sent to after a
// callback or cancellation.
type RedirectConfig struct {
	SuccessURL   string
	FailureURL   string
	CancelledURL string
}

// RedirectResponder renders the HTML hand-back to the browser. The gateway
// can only deliver its callback by redirecting a browser, so the response to
// it is always a well-formed HTML page, never a machine-readable error.
type RedirectResponder struct {
	cfg    RedirectConfig
	logger *zap.Logger
	tmpl   *template.Template
}

// NewRedirectResponder creates a redirect responder
func NewRedirectResponder(cfg RedirectConfig, logger *zap.Logger) *RedirectResponder {
	return &RedirectResponder{
		cfg:    cfg,
		logger: logger,
		tmpl:   template.Must(template.New("redirect").Parse(redirectTemplate)),
	}
}

// Success sends the browser to the success page for the order
func (r *RedirectResponder) Success(w http.ResponseWriter, orderID string) {
	r.render(w, r.cfg.SuccessURL, "Payment successful", orderID, "")
}

// Failure sends the browser to the failure page, carrying the reason
func (r *RedirectResponder) Failure(w http.ResponseWriter, orderID, reason string) {
	r.render(w, r.cfg.FailureURL, "Payment failed", orderID, reason)
}

// Cancelled sends the browser to the cancelled page
func (r *RedirectResponder) Cancelled(w http.ResponseWriter, orderID string) {
	r.render(w, r.cfg.CancelledURL, "Payment cancelled", orderID, "")
}

func (r *RedirectResponder) render(w http.ResponseWriter, baseURL, title, orderID, reason string) {
	target := baseURL
	params := url.Values{}
	if orderID != "" {
		params.Set("orderId", orderID)
	}
	if reason != "" {
		params.Set("reason", reason)
	}
	if encoded := params.Encode(); encoded != "" {
		separator := "?"
		if u, err := url.Parse(baseURL); err == nil && u.RawQuery != "" {
			separator = "&"
		}
		target = fmt.Sprintf("%s%s%s", baseURL, separator, encoded)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	data := map[string]string{
		"Title":  title,
		"Target": target,
	}
	if err := r.tmpl.Execute(w, data); err != nil {
		r.logger.Error("failed to render redirect page",
			zap.String("target", target),
			zap.Error(err),
		)
	}
}

const redirectTemplate = `<!DOCTYPE html>
<html>
<head>
	<meta http-equiv="refresh" content="0; url={{.Target}}">
	<title>{{.Title}}</title>
	<style>
		body {
			font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
			display: flex;
			align-items: center;
			justify-content: center;
			height: 100vh;
			margin: 0;
			background: #f5f5f5;
		}
		.container {
			text-align: center;
			padding: 2rem;
			background: white;
			border-radius: 8px;
			box-shadow: 0 2px 8px rgba(0,0,0,0.1);
		}
	</style>
</head>
<body>
	<div class="container">
		<h2>{{.Title}}</h2>
		<p>Returning to application...</p>
		<p><a href="{{.Target}}">Click here if not redirected automatically</a></p>
	</div>
	<script>
		setTimeout(function() {
			window.location.href = {{.Target}};
		}, 100);
	</script>
</body>
</html>`

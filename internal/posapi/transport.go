package posapi

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// bearerTransport attaches the bearer token to every outgoing request.
type bearerTransport struct {
	token string
	next  http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.token != "" {
		// Clone before mutating: RoundTrippers must not modify the original.
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+t.token)
	}
	return t.next.RoundTrip(req)
}

// newTransport builds the default transport chain: otel instrumentation over
// bearer authentication over the standard transport.
func newTransport(token string) http.RoundTripper {
	return otelhttp.NewTransport(&bearerTransport{
		token: token,
		next:  http.DefaultTransport,
	})
}

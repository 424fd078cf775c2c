package bigmodel

import (
	"net/http"
	"time"

	"github.com/poiesic/curator/ai"
)

// signingTransport mints a fresh bearer token for every outgoing request.
type signingTransport struct {
	base http.RoundTripper
	cred ai.Credential
	ttl  time.Duration
	now  func() time.Time
}

func newSigningTransport(cred ai.Credential, ttl time.Duration) *signingTransport {
	return &signingTransport{
		base: http.DefaultTransport,
		cred: cred,
		ttl:  ttl,
		now:  time.Now,
	}
}

// RoundTrip implements http.RoundTripper.
func (t *signingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := ai.SignToken(t.cred, t.now(), t.ttl)
	if err != nil {
		return nil, err
	}
	// RoundTrippers must not modify the caller's request.
	signed := req.Clone(req.Context())
	signed.Header.Set("Authorization", "Bearer "+token)
	return t.base.RoundTrip(signed)
}

// newHTTPClient returns a client whose requests are signed with cred.
// Timeouts are applied per call through the request context.
func newHTTPClient(cred ai.Credential, ttl time.Duration) *http.Client {
	return &http.Client{Transport: newSigningTransport(cred, ttl)}
}

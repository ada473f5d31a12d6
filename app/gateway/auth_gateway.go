package gateway

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

// AuthGateway reaches the two opaque OTP endpoints. Code delivery itself is
// the remote service's concern; a verified code establishes the session
// cookie on the shared HTTP client's jar.
type AuthGateway interface {
	RequestCode(ctx context.Context, identifier string) error
	VerifyCode(ctx context.Context, identifier, code string) error
}

type httpAuthGateway struct {
	transport *httpCartGateway
}

// NewAuthGateway shares the given client (and its cookie jar) so the session
// cookie issued on verification is visible to every subsequent cart call.
func NewAuthGateway(baseURL string, client *http.Client, logger *zap.Logger) AuthGateway {
	return &httpAuthGateway{
		transport: &httpCartGateway{baseURL: baseURL, client: client, logger: logger},
	}
}

func (g *httpAuthGateway) RequestCode(ctx context.Context, identifier string) error {
	_, err := g.transport.doRequest(ctx, http.MethodPost, "/auth/request-otp", map[string]any{
		"identifier": identifier,
	})
	return err
}

func (g *httpAuthGateway) VerifyCode(ctx context.Context, identifier, code string) error {
	_, err := g.transport.doRequest(ctx, http.MethodPost, "/auth/verify-otp", map[string]any{
		"identifier": identifier,
		"code":       code,
	})
	return err
}

// AngelaMos | 2026
// identity.go

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/borka-sandviken/borka-api/internal/core"
)

const maxIdentityResponseBytes = 1 << 20

// ExternalIdentity is the profile returned by the identity provider for a
// one-time session id.
type ExternalIdentity struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Picture      string `json:"picture"`
	SessionToken string `json:"session_token"`
}

type IdentityExchanger interface {
	Exchange(ctx context.Context, sessionID string) (*ExternalIdentity, error)
}

type IdentityClient struct {
	url    string
	client *http.Client
}

func NewIdentityClient(url string, client *http.Client) *IdentityClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &IdentityClient{url: url, client: client}
}

// Exchange trades a provider session id for the caller's identity. Any
// non-200 answer or an incomplete profile yields ErrInvalidExternalSession.
func (c *IdentityClient) Exchange(
	ctx context.Context,
	sessionID string,
) (_ *ExternalIdentity, err error) {
	ctx, span := core.StartSpan(ctx, "auth.identity_exchange", attribute.String("identity.url", c.url))
	defer func() {
		if err != nil {
			core.SetSpanError(ctx, err)
		}
		span.End()
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build identity request: %w", err)
	}
	req.Header.Set("X-Session-ID", sessionID)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call identity provider: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // body is fully read or discarded

	if resp.StatusCode != http.StatusOK {
		//nolint:errcheck // drain for connection reuse
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxIdentityResponseBytes))
		return nil, fmt.Errorf(
			"identity provider status %d: %w",
			resp.StatusCode,
			ErrInvalidExternalSession,
		)
	}

	var identity ExternalIdentity
	decoder := json.NewDecoder(io.LimitReader(resp.Body, maxIdentityResponseBytes))
	if err := decoder.Decode(&identity); err != nil {
		return nil, fmt.Errorf(
			"decode identity: %w",
			errors.Join(ErrInvalidExternalSession, err),
		)
	}

	identity.Email = strings.ToLower(strings.TrimSpace(identity.Email))
	identity.SessionToken = strings.TrimSpace(identity.SessionToken)

	if identity.Email == "" || identity.SessionToken == "" {
		return nil, fmt.Errorf("incomplete identity: %w", ErrInvalidExternalSession)
	}

	return &identity, nil
}

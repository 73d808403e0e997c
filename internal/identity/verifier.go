package identity

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Verifier checks access tokens against the identity provider. The task
// service uses it to authenticate every request instead of trusting
// callers blindly.
type Verifier struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewVerifier creates a verifier for the provider at baseURL.
func NewVerifier(baseURL, apiKey string) *Verifier {
	return &Verifier{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Verify resolves an access token to the user it belongs to. An invalid
// or expired token yields an *Error with the provider's status code.
func (v *Verifier) Verify(ctx context.Context, token string) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", v.apiKey)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, decodeError(resp)
	}

	var u User
	if err := decodeJSON(resp, &u); err != nil {
		return nil, err
	}
	if u.ID == "" {
		return nil, &Error{Status: http.StatusUnauthorized, Message: "token does not resolve to a user"}
	}
	return &u, nil
}

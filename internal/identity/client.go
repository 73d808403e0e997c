// Package identity talks to the external identity provider (a GoTrue-style
// password-grant API). It owns the client-side session and notifies
// subscribers when the authenticated user changes.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// Auth-state change events delivered to subscribers.
const (
	EventSignedIn  = "SIGNED_IN"
	EventSignedOut = "SIGNED_OUT"
)

// User is the identity the provider vouches for.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is an authenticated session issued by the provider.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// Error is an authentication failure reported by the provider.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("identity provider: %s (status %d)", e.Message, e.Status)
}

// ChangeFunc receives auth-state change notifications.
type ChangeFunc func(event string, session *Session)

// Client is the identity-provider client used by the terminal UI.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client

	mu      sync.Mutex
	session *Session
	subs    map[int]ChangeFunc
	nextSub int
}

// NewClient creates a client for the provider at baseURL. apiKey is the
// provider's public (anon) key, sent with every request.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
		subs:    make(map[int]ChangeFunc),
	}
}

// GetSession returns the current session, or nil when signed out.
func (c *Client) GetSession() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// OnAuthStateChange registers fn to be called on every sign-in and
// sign-out. The returned function unsubscribes it.
func (c *Client) OnAuthStateChange(fn ChangeFunc) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *Client) setSession(event string, s *Session) {
	c.mu.Lock()
	c.session = s
	fns := make([]ChangeFunc, 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(event, s)
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp registers a new account and, when the provider issues a session
// immediately, signs the client in.
func (c *Client) SignUp(ctx context.Context, email, password string) (*User, error) {
	var s Session
	err := c.post(ctx, "/auth/v1/signup", "", credentials{Email: email, Password: password}, &s)
	if err != nil {
		return nil, err
	}
	if s.AccessToken != "" {
		c.setSession(EventSignedIn, &s)
	}
	return &s.User, nil
}

// SignInWithPassword exchanges credentials for a session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*User, error) {
	var s Session
	err := c.post(ctx, "/auth/v1/token?grant_type=password", "", credentials{Email: email, Password: password}, &s)
	if err != nil {
		return nil, err
	}
	c.setSession(EventSignedIn, &s)
	return &s.User, nil
}

// SignOut revokes the current session. The local session is cleared even
// if the provider call fails.
func (c *Client) SignOut(ctx context.Context) error {
	s := c.GetSession()
	var err error
	if s != nil {
		err = c.post(ctx, "/auth/v1/logout", s.AccessToken, struct{}{}, nil)
	}
	c.setSession(EventSignedOut, nil)
	return err
}

func (c *Client) post(ctx context.Context, path, token string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	c.setHeaders(req, token)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("identity provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request, token string) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func decodeJSON(resp *http.Response, out any) error {
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type providerError struct {
	Message          string `json:"message"`
	Msg              string `json:"msg"`
	ErrorDescription string `json:"error_description"`
}

func decodeError(resp *http.Response) error {
	var pe providerError
	body, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(body, &pe)

	msg := pe.Message
	if msg == "" {
		msg = pe.Msg
	}
	if msg == "" {
		msg = pe.ErrorDescription
	}
	if msg == "" {
		msg = resp.Status
	}
	return &Error{Status: resp.StatusCode, Message: msg}
}

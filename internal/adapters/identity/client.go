package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"hotelbook/internal/adapters/observability"
	"hotelbook/internal/domain"
)

// Client talks to the hosted identity provider over its REST surface.
// Tokens are opaque provider tokens; the service never mints its own.
type Client struct {
	base string
	key  string
	hc   *http.Client
	rl   *rate.Limiter
}

func New(base, key string, rps int) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("identity API key is required")
	}
	if rps <= 0 {
		rps = 10
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		key:  key,
		hc:   &http.Client{Timeout: 15 * time.Second},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// provider wire shapes

type credentials struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type accountResponse struct {
	LocalID     string `json:"localId"`
	IDToken     string `json:"idToken"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

type lookupResponse struct {
	Users []accountResponse `json:"users"`
}

type providerError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) SignUp(ctx context.Context, name, email, password string) (domain.Session, error) {
	var acct accountResponse
	err := c.post(ctx, "accounts:signUp", credentials{Email: email, Password: password, ReturnSecureToken: true}, &acct)
	if err != nil {
		return domain.Session{}, err
	}
	// display name is a second call on this provider
	sess := domain.Session{UserID: acct.LocalID, Token: acct.IDToken, Email: acct.Email, DisplayName: name}
	if name != "" {
		if updated, uerr := c.UpdateDisplayName(ctx, acct.IDToken, name); uerr == nil {
			sess = updated
		}
	}
	return sess, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (domain.Session, error) {
	var acct accountResponse
	err := c.post(ctx, "accounts:signInWithPassword", credentials{Email: email, Password: password, ReturnSecureToken: true}, &acct)
	if err != nil {
		return domain.Session{}, err
	}
	return domain.Session{UserID: acct.LocalID, Token: acct.IDToken, Email: acct.Email, DisplayName: acct.DisplayName}, nil
}

// SignOut performs no provider call: tokens are stateless and sign-out is a
// client-side discard, matching the provider's session model.
func (c *Client) SignOut(ctx context.Context, token string) error { return nil }

func (c *Client) SendPasswordReset(ctx context.Context, email string) error {
	body := map[string]string{"requestType": "PASSWORD_RESET", "email": email}
	return c.post(ctx, "accounts:sendOobCode", body, &struct{}{})
}

func (c *Client) CurrentUser(ctx context.Context, token string) (domain.Session, error) {
	var out lookupResponse
	if err := c.post(ctx, "accounts:lookup", map[string]string{"idToken": token}, &out); err != nil {
		return domain.Session{}, err
	}
	if len(out.Users) == 0 {
		return domain.Session{}, &domain.AuthError{Code: domain.AuthUserNotFound, Err: fmt.Errorf("no account for token")}
	}
	u := out.Users[0]
	return domain.Session{UserID: u.LocalID, Token: token, Email: u.Email, DisplayName: u.DisplayName}, nil
}

func (c *Client) UpdateDisplayName(ctx context.Context, token, name string) (domain.Session, error) {
	body := map[string]any{"idToken": token, "displayName": name, "returnSecureToken": false}
	var acct accountResponse
	if err := c.post(ctx, "accounts:update", body, &acct); err != nil {
		return domain.Session{}, err
	}
	tok := acct.IDToken
	if tok == "" {
		tok = token
	}
	return domain.Session{UserID: acct.LocalID, Token: tok, Email: acct.Email, DisplayName: acct.DisplayName}, nil
}

func (c *Client) post(ctx context.Context, endpoint string, in, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return &domain.AuthError{Code: domain.AuthNetworkFailure, Err: err}
	}

	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s/%s?key=%s", c.base, endpoint, c.key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		observability.ObserveExternal("identity", endpoint, 0, time.Since(start))
		return &domain.AuthError{Code: domain.AuthNetworkFailure, Err: err}
	}
	defer resp.Body.Close()
	observability.ObserveExternal("identity", endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode == http.StatusOK {
		return json.NewDecoder(resp.Body).Decode(out)
	}

	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var pe providerError
	_ = json.Unmarshal(b, &pe)
	return &domain.AuthError{Code: mapProviderCode(pe.Error.Message), Err: fmt.Errorf("identity %d: %s", resp.StatusCode, pe.Error.Message)}
}

// mapProviderCode translates raw provider error strings into the domain
// taxonomy. Unknown strings fall through to AuthUnknown so new provider
// codes degrade to the generic message instead of breaking flows.
func mapProviderCode(msg string) domain.AuthCode {
	code := msg
	// messages like "TOO_MANY_ATTEMPTS_TRY_LATER : ..." carry a suffix
	if i := strings.IndexByte(code, ':'); i > 0 {
		code = strings.TrimSpace(code[:i])
	}
	switch code {
	case "INVALID_LOGIN_CREDENTIALS", "INVALID_PASSWORD", "INVALID_ID_TOKEN":
		return domain.AuthInvalidCredential
	case "TOO_MANY_ATTEMPTS_TRY_LATER":
		return domain.AuthTooManyAttempts
	case "EMAIL_EXISTS":
		return domain.AuthEmailInUse
	case "EMAIL_NOT_FOUND", "USER_NOT_FOUND":
		return domain.AuthUserNotFound
	case "INVALID_EMAIL":
		return domain.AuthInvalidEmail
	default:
		return domain.AuthUnknown
	}
}

package eventful

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
)

const loginPath = "/users/login"

// Session is the credential issued by a successful login.
type Session struct {
	Username string
	UserKey  string
}

// Authenticated reports whether the session holds a credential
func (s Session) Authenticated() bool {
	return s.UserKey != ""
}

// Session returns a copy of the current session
func (c *Client) Session() Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// SetSession replaces the current session, e.g. with one saved earlier
func (c *Client) SetSession(s Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = s
}

// Logout clears the session; later calls are sent unauthenticated.
func (c *Client) Logout() {
	c.SetSession(Session{})
}

// Login performs the nonce challenge handshake and stores the issued user
// key. Neither request carries an existing session, and the session is only
// replaced once both round trips succeed.
func (c *Client) Login(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return ErrNoCredentials
	}

	nonce, err := c.fetchNonce(ctx, username)
	if err != nil {
		return fmt.Errorf("login challenge for %s: %w", username, err)
	}

	params := NewParams().
		Add("user", username).
		Add("nonce", nonce).
		Add("response", LoginDigest(nonce, password))

	doc, err := c.Invoke(ctx, loginPath, params, Anonymous())
	if err != nil {
		return fmt.Errorf("login for %s: %w", username, err)
	}

	userKey, err := firstText(doc, []string{"response", "user_key"}, []string{"user_key"})
	if err != nil {
		return fmt.Errorf("login for %s: %w", username, err)
	}
	if userKey == "" {
		return fmt.Errorf("login for %s: %w: empty user_key", username, ErrMalformedResponse)
	}

	c.SetSession(Session{Username: username, UserKey: userKey})
	c.logger.Debug().Str("user", username).Msg("Logged in to Eventful")
	return nil
}

// fetchNonce asks the server for a login challenge. The challenge arrives as
// an <error> document carrying a <nonce>, so the error check is skipped and
// only applied when no nonce is present (unknown user and the like).
func (c *Client) fetchNonce(ctx context.Context, username string) (string, error) {
	doc, err := c.Invoke(ctx, loginPath, NewParams().Add("user", username), Anonymous(), SkipErrorCheck())
	if err != nil {
		return "", err
	}

	nonce, err := firstText(doc, []string{"error", "nonce"}, []string{"nonce"})
	if err == nil {
		if nonce == "" {
			return "", fmt.Errorf("%w: empty nonce", ErrMalformedResponse)
		}
		return nonce, nil
	}
	if _, apiErr := CheckError(doc); apiErr != nil {
		return "", apiErr
	}
	return "", err
}

// LoginDigest computes md5hex(nonce + ":" + md5hex(password)), the value
// sent in place of the password.
func LoginDigest(nonce, password string) string {
	return md5Hex(nonce + ":" + md5Hex(password))
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// firstText returns the text at the first path that exists in doc.
func firstText(doc *Node, paths ...[]string) (string, error) {
	var lastErr error
	for _, p := range paths {
		text, err := doc.Text(p...)
		if err == nil {
			return text, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return "", err
		}
		lastErr = err
	}
	return "", lastErr
}

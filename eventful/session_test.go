package eventful

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginDigest(t *testing.T) {
	// md5("P") = 44c29edb103a2872f519ad0c9a0fdaaa
	assert.Equal(t, "44c29edb103a2872f519ad0c9a0fdaaa", md5Hex("P"))
	assert.Equal(t, "f3c33683651886250fd579d07fd932f4", LoginDigest("N", "P"))
	assert.Equal(t, "9b69f2ea3eab1291c7f80769d9e0052a", LoginDigest("abc123", "secret"))
}

// loginServer emulates the two step handshake of /users/login.
type loginServer struct {
	nonce     string
	password  string
	userKey   string
	challenge string // overrides the first reply when set
	final     string // overrides the second reply when set
	calls     atomic.Int32
	queries   []string
}

func (s *loginServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.calls.Add(1)
	s.queries = append(s.queries, r.URL.RawQuery)
	q := r.URL.Query()

	if q.Get("nonce") == "" {
		if s.challenge != "" {
			fmt.Fprint(w, s.challenge)
			return
		}
		fmt.Fprintf(w, `<error string="Authentication error"><description>Login required</description><nonce>%s</nonce></error>`, s.nonce)
		return
	}

	if s.final != "" {
		fmt.Fprint(w, s.final)
		return
	}
	if q.Get("nonce") != s.nonce || q.Get("response") != LoginDigest(s.nonce, s.password) {
		fmt.Fprint(w, `<error string="Authentication error"><description>Bad password</description></error>`)
		return
	}
	fmt.Fprintf(w, `<response><status>ok</status><user_key>%s</user_key></response>`, s.userKey)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		srv := &loginServer{nonce: "N", password: "P", userKey: "uk-123"}
		client := newTestClient(t, srv)

		require.NoError(t, client.Login(ctx, "alice", "P"))

		assert.Equal(t, Session{Username: "alice", UserKey: "uk-123"}, client.Session())
		assert.EqualValues(t, 2, srv.calls.Load())
		assert.Equal(t, "app_key=test-app-key&user=alice", srv.queries[0])
		assert.Equal(t, "app_key=test-app-key&user=alice&nonce=N&response=f3c33683651886250fd579d07fd932f4", srv.queries[1])
		for _, q := range srv.queries {
			assert.NotContains(t, q, "password")
			assert.NotContains(t, q, "=P&")
		}
	})

	t.Run("relogin ignores the existing session", func(t *testing.T) {
		srv := &loginServer{nonce: "N2", password: "P", userKey: "uk-new"}
		client := newTestClient(t, srv, WithSession(Session{Username: "old", UserKey: "uk-old"}))

		require.NoError(t, client.Login(ctx, "alice", "P"))

		for _, q := range srv.queries {
			assert.NotContains(t, q, "uk-old")
			assert.NotContains(t, q, "user=old")
		}
		assert.Equal(t, "uk-new", client.Session().UserKey)

		// later calls carry the new credential
		_, err := client.Invoke(ctx, "/users/login", NewParams().Add("nonce", "N2"))
		require.Error(t, err)
		assert.Contains(t, srv.queries[len(srv.queries)-1], "user_key=uk-new")
	})

	t.Run("nonce as document element", func(t *testing.T) {
		srv := &loginServer{nonce: "N", password: "P", userKey: "uk", challenge: `<nonce>N</nonce>`}
		client := newTestClient(t, srv)

		require.NoError(t, client.Login(ctx, "alice", "P"))
		assert.Equal(t, "uk", client.Session().UserKey)
	})

	t.Run("user_key as document element", func(t *testing.T) {
		srv := &loginServer{nonce: "N", password: "P", final: `<user_key>uk-root</user_key>`}
		client := newTestClient(t, srv)

		require.NoError(t, client.Login(ctx, "alice", "P"))
		assert.Equal(t, "uk-root", client.Session().UserKey)
	})
}

func TestLoginFailureLeavesSessionUnchanged(t *testing.T) {
	ctx := context.Background()
	previous := Session{Username: "old", UserKey: "uk-old"}

	tests := []struct {
		name      string
		srv       *loginServer
		password  string
		wantCalls int32
		check     func(t *testing.T, err error)
	}{
		{
			name:      "unknown user",
			srv:       &loginServer{challenge: `<error string="Not found"><description>No such user</description></error>`},
			password:  "P",
			wantCalls: 1,
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, "Not found", apiErr.Code)
			},
		},
		{
			name:      "challenge without nonce",
			srv:       &loginServer{challenge: `<response><status>ok</status></response>`},
			password:  "P",
			wantCalls: 1,
			check: func(t *testing.T, err error) {
				assert.True(t, IsNotFound(err))
			},
		},
		{
			name:      "empty nonce",
			srv:       &loginServer{challenge: `<error string="Authentication error"><nonce/></error>`},
			password:  "P",
			wantCalls: 1,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrMalformedResponse)
			},
		},
		{
			name:      "wrong password",
			srv:       &loginServer{nonce: "N", password: "P", userKey: "uk"},
			password:  "wrong",
			wantCalls: 2,
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				assert.True(t, apiErr.IsAuthentication())
			},
		},
		{
			name:      "reply without user_key",
			srv:       &loginServer{nonce: "N", password: "P", final: `<response><status>ok</status></response>`},
			password:  "P",
			wantCalls: 2,
			check: func(t *testing.T, err error) {
				assert.True(t, IsNotFound(err))
			},
		},
		{
			name:      "empty user_key",
			srv:       &loginServer{nonce: "N", password: "P", final: `<response><user_key></user_key></response>`},
			password:  "P",
			wantCalls: 2,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrMalformedResponse)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.srv, WithSession(previous))

			err := client.Login(ctx, "alice", tt.password)
			require.Error(t, err)
			tt.check(t, err)

			assert.Equal(t, previous, client.Session())
			assert.Equal(t, tt.wantCalls, tt.srv.calls.Load())
		})
	}
}

func TestLoginRequiresCredentials(t *testing.T) {
	srv := &loginServer{}
	client := newTestClient(t, srv)

	assert.ErrorIs(t, client.Login(context.Background(), "", "P"), ErrNoCredentials)
	assert.ErrorIs(t, client.Login(context.Background(), "alice", ""), ErrNoCredentials)
	assert.EqualValues(t, 0, srv.calls.Load())
}

func TestLogout(t *testing.T) {
	srv := &loginServer{nonce: "N", password: "P", userKey: "uk"}
	client := newTestClient(t, srv)

	require.NoError(t, client.Login(context.Background(), "alice", "P"))
	require.True(t, client.Session().Authenticated())

	client.Logout()
	assert.False(t, client.Session().Authenticated())
	assert.Empty(t, client.Session().Username)
}

package session_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/blog/internal/session"
)

const testSecret = "test-signing-secret"

var alice = session.Identity{UserID: 1, Username: "alice"}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newCodec(t *testing.T, c *clock) *session.Codec {
	t.Helper()
	codec, err := session.New(session.Config{Secret: testSecret}, session.WithClock(c.now))
	require.NoError(t, err)
	return codec
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := session.New(session.Config{})
	assert.ErrorIs(t, err, session.ErrNoSecret)

	codec, err := session.New(session.Config{Secret: "x"})
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, codec.TTL())
}

func TestIssueVerify(t *testing.T) {
	t.Parallel()

	c := &clock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	codec := newCodec(t, c)

	token, err := codec.Issue(alice)
	require.NoError(t, err)

	id, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, alice, id)
	assert.True(t, id.IsAuthenticated())
}

func TestIssueAnonymous(t *testing.T) {
	t.Parallel()

	codec := newCodec(t, &clock{t: time.Now()})
	_, err := codec.Issue(session.Anonymous)
	assert.ErrorIs(t, err, session.ErrAnonymousIssue)
}

func TestExpiry(t *testing.T) {
	t.Parallel()

	issued := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c := &clock{t: issued}
	codec := newCodec(t, c)

	token, err := codec.Issue(alice)
	require.NoError(t, err)

	c.t = issued.Add(24*time.Hour - time.Second)
	_, err = codec.Verify(token)
	require.NoError(t, err)

	c.t = issued.Add(24*time.Hour + time.Second)
	_, err = codec.Verify(token)
	assert.ErrorIs(t, err, session.ErrExpiredToken)
	assert.Equal(t, session.Anonymous, codec.Resolve(token))
}

func TestVerifyRejects(t *testing.T) {
	t.Parallel()

	c := &clock{t: time.Now()}
	codec := newCodec(t, c)
	token, err := codec.Issue(alice)
	require.NoError(t, err)

	other, err := session.New(session.Config{Secret: "another-secret"}, session.WithClock(c.now))
	require.NoError(t, err)
	foreign, err := other.Issue(alice)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	flipped := "A"
	if parts[2][0] == 'A' {
		flipped = "B"
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userid":   2,
		"username": "bob",
		"exp":      c.t.Add(time.Hour).Unix(),
	}).SignedString([]byte("guess"))
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"userid":   1,
		"username": "alice",
		"exp":      c.t.Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userid":   1,
		"username": "alice",
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": c.t.Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"empty", "", session.ErrNoToken},
		{"garbage", "not-a-token", session.ErrInvalidToken},
		{"tampered payload", parts[0] + "." + parts[1] + "x." + parts[2], session.ErrInvalidToken},
		{"tampered signature", parts[0] + "." + parts[1] + "." + flipped + parts[2][1:], session.ErrInvalidToken},
		{"foreign secret", foreign, session.ErrInvalidToken},
		{"forged", forged, session.ErrInvalidToken},
		{"alg none", unsigned, session.ErrInvalidToken},
		{"missing expiry", noExpiry, session.ErrInvalidToken},
		{"missing identity", noUser, session.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.NotPanics(t, func() {
				id, err := codec.Verify(tt.token)
				assert.ErrorIs(t, err, tt.want)
				assert.Equal(t, session.Anonymous, id)
				assert.False(t, codec.Resolve(tt.token).IsAuthenticated())
			})
		})
	}
}

package sessionx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCodecRoundTrip(t *testing.T) {
	t.Parallel()

	codec := &Codec{Secret: []byte("test-secret"), Issuer: "telecrm"}

	token, err := codec.Issue("google:12345", "Alice", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	sess, err := codec.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "google:12345", sess.OpenID)
	require.Equal(t, "Alice", sess.Name)
}

func TestCodecVerifyFailures(t *testing.T) {
	t.Parallel()

	codec := &Codec{Secret: []byte("test-secret"), Issuer: "telecrm"}

	t.Run("expired token", func(t *testing.T) {
		token, err := codec.Issue("google:12345", "Alice", -time.Minute)
		require.NoError(t, err)

		_, err = codec.Verify(token)
		require.ErrorIs(t, err, ErrInvalidSession)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := &Codec{Secret: []byte("different-secret"), Issuer: "telecrm"}
		token, err := other.Issue("google:12345", "Alice", time.Hour)
		require.NoError(t, err)

		_, err = codec.Verify(token)
		require.ErrorIs(t, err, ErrInvalidSession)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := &Codec{Secret: []byte("test-secret"), Issuer: "someone-else"}
		token, err := other.Issue("google:12345", "Alice", time.Hour)
		require.NoError(t, err)

		_, err = codec.Verify(token)
		require.ErrorIs(t, err, ErrInvalidSession)
	})

	t.Run("garbage input", func(t *testing.T) {
		for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
			_, err := codec.Verify(tok)
			require.ErrorIs(t, err, ErrInvalidSession)
		}
	})

	t.Run("empty subject", func(t *testing.T) {
		token, err := codec.Issue("", "Nameless", time.Hour)
		require.NoError(t, err)

		_, err = codec.Verify(token)
		require.ErrorIs(t, err, ErrInvalidSession)
	})
}

func TestCodecRequiresSecret(t *testing.T) {
	t.Parallel()

	codec := &Codec{Issuer: "telecrm"}
	_, err := codec.Issue("google:1", "A", time.Hour)
	require.Error(t, err)
}

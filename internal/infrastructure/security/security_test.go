package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faseeh100/orphancare-web/internal/domain/entities/content"
)

func TestSessionRoundTrip(t *testing.T) {
	sess := content.Session{
		Token: "api-bearer-token",
		User:  content.AdminUser{ID: "7", Name: "Amina Yusuf", Email: "amina@example.org"},
	}

	signed, err := SignSession(sess, "secret", time.Hour)
	require.NoError(t, err)
	assert.NotContains(t, signed, "api-bearer-token")

	got, err := ParseSession(signed, "secret")
	require.NoError(t, err)
	assert.Equal(t, sess, got)
}

func TestParseSessionRejectsWrongSecretAndExpiry(t *testing.T) {
	sess := content.Session{Token: "t", User: content.AdminUser{ID: "1"}}

	signed, err := SignSession(sess, "secret", time.Hour)
	require.NoError(t, err)
	_, err = ParseSession(signed, "other")
	assert.ErrorIs(t, err, ErrInvalidSession)

	expired, err := SignSession(sess, "secret", -time.Minute)
	require.NoError(t, err)
	_, err = ParseSession(expired, "secret")
	assert.ErrorIs(t, err, ErrInvalidSession)

	_, err = ParseSession("not-a-jwt", "secret")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSealOpen(t *testing.T) {
	sealed, err := Seal("hello", "k")
	require.NoError(t, err)

	plain, err := Open(sealed, "k")
	require.NoError(t, err)
	assert.Equal(t, "hello", plain)

	_, err = Open(sealed, "other")
	assert.ErrorIs(t, err, ErrSealedValue)
}

func TestULIDs(t *testing.T) {
	a, b := NewULID(), NewULID()
	assert.NotEqual(t, a, b)
	assert.Less(t, a, b)

	minted, ok := ULIDTime(a)
	require.True(t, ok)
	assert.WithinDuration(t, time.Now(), minted, time.Minute)

	_, ok = ULIDTime("not-a-ulid")
	assert.False(t, ok)
}

package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_PasswordRoundTrip(t *testing.T) {
	p := NewProvider("s", "iss", "aud", time.Hour)

	hash, err := p.HashPassword("secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", hash)
	assert.True(t, p.VerifyPassword("secret", hash))
	assert.False(t, p.VerifyPassword("wrong", hash))
	assert.False(t, p.VerifyPassword("secret", "not-a-hash"))
}

func TestProvider_IssueAndParseToken(t *testing.T) {
	p := NewProvider("s", "iss", "aud", 7*24*time.Hour)

	tok, err := p.IssueToken(42, "a@example.com", "Alice")
	require.NoError(t, err)

	id, err := p.ParseToken(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestProvider_TokenExpiresAfterTTL(t *testing.T) {
	issued := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p := NewProvider("s", "iss", "aud", 7*24*time.Hour)
	p.now = func() time.Time { return issued }

	tok, err := p.IssueToken(1, "a@example.com", "A")
	require.NoError(t, err)

	p.now = func() time.Time { return issued.Add(6 * 24 * time.Hour) }
	_, err = p.ParseToken(tok)
	assert.NoError(t, err)

	p.now = func() time.Time { return issued.Add(7*24*time.Hour + time.Second) }
	_, err = p.ParseToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestProvider_RejectsForeignTokens(t *testing.T) {
	p := NewProvider("secret-A", "iss", "aud", time.Hour)
	tok, err := p.IssueToken(1, "a@example.com", "A")
	require.NoError(t, err)

	_, err = NewProvider("secret-B", "iss", "aud", time.Hour).ParseToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewProvider("secret-A", "other", "aud", time.Hour).ParseToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewProvider("secret-A", "iss", "other", time.Hour).ParseToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = p.ParseToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestProvider_AvatarURLFor(t *testing.T) {
	p := NewProvider("s", "iss", "aud", time.Hour)
	// md5("test@example.com")
	want := "https://www.gravatar.com/avatar/55502f40dc8b7c769880b10874abc9d0?d=identicon"
	assert.Equal(t, want, p.AvatarURLFor(" Test@Example.com "))
}

package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("66f0c1d2e3a4b5c6d7e8f901", "admin")
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "66f0c1d2e3a4b5c6d7e8f901", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, err := ValidateToken("not.a.token")
	assert.Error(t, err)

	_, err = ValidateToken("")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.True(t, CheckPassword(hash, "hunter22"))
	assert.False(t, CheckPassword(hash, "hunter23"))
}

func TestRequesterContext(t *testing.T) {
	ctx := WithRequester(context.Background(), Requester{ID: "abc", Role: "customer"})

	req, ok := RequesterFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, "abc", req.ID)
	assert.False(t, req.IsAdmin())

	_, ok = RequesterFrom(context.Background())
	assert.False(t, ok)
}

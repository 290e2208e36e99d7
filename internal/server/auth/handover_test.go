package auth

import (
	"encoding/base64"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintHandoverToken_PayloadShape(t *testing.T) {
	token, err := MintHandoverToken(42)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(token)
	require.NoError(t, err)

	parts := strings.Split(string(raw), ":")
	require.Len(t, parts, 3)
	assert.Equal(t, "42", parts[0])
	assert.Len(t, parts[2], 6)
	_, err = strconv.Atoi(parts[2])
	assert.NoError(t, err)
}

func TestMintHandoverToken_Unique(t *testing.T) {
	a, err := MintHandoverToken(7)
	require.NoError(t, err)
	b, err := MintHandoverToken(7)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHashHandoverToken_Deterministic(t *testing.T) {
	h1 := HashHandoverToken("token-a")
	h2 := HashHandoverToken("token-a")
	h3 := HashHandoverToken("token-b")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 64)
}

func TestGenerateChallengeCode_Range(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := GenerateChallengeCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

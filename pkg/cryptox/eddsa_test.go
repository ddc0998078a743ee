package cryptox

import (
	"crypto/ed25519"
	"crypto/x509"
	"encoding/pem"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateEd25519Key(t *testing.T) {
	pemKey, err := GenerateEd25519Key()
	require.NoError(t, err)

	block, rest := pem.Decode(pemKey)
	require.NotNil(t, block)
	require.Empty(t, rest)
	require.Equal(t, "PRIVATE KEY", block.Type, "Ed25519 keys use PKCS8 framing")

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	require.NoError(t, err)

	key, ok := parsed.(ed25519.PrivateKey)
	require.True(t, ok)
	require.Len(t, key, ed25519.PrivateKeySize)
}

func TestGenerateEd25519KeyIsUnique(t *testing.T) {
	k1, err := GenerateEd25519Key()
	require.NoError(t, err)
	k2, err := GenerateEd25519Key()
	require.NoError(t, err)

	require.NotEqual(t, k1, k2)
}

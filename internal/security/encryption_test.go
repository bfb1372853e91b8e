package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptor_EncryptDecrypt(t *testing.T) {
	key, err := NewKey()
	require.NoError(t, err)

	encryptor, err := NewEncryptor(key)
	require.NoError(t, err)

	testCases := []struct {
		name      string
		plaintext string
	}{
		{name: "token json", plaintext: `{"access":"eyJhbGciOi...","refresh":"eyJhbGci..."}`},
		{name: "empty", plaintext: ""},
		{name: "unicode", plaintext: "jelszó és token"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ciphertext, err := encryptor.Encrypt([]byte(tc.plaintext))
			require.NoError(t, err)

			if tc.plaintext == "" {
				assert.Equal(t, "", ciphertext)
				return
			}

			assert.NotEqual(t, tc.plaintext, ciphertext)

			decrypted, err := encryptor.Decrypt(ciphertext)
			require.NoError(t, err)
			assert.Equal(t, tc.plaintext, string(decrypted))
		})
	}
}

func TestEncryptor_InvalidKey(t *testing.T) {
	for _, size := range []int{0, 16, 64} {
		_, err := NewEncryptor(make([]byte, size))
		assert.Error(t, err)
	}
}

func TestEncryptor_DifferentCiphertexts(t *testing.T) {
	key, err := NewKey()
	require.NoError(t, err)

	encryptor, err := NewEncryptor(key)
	require.NoError(t, err)

	plaintext := []byte("stored credentials")

	ciphertext1, err := encryptor.Encrypt(plaintext)
	require.NoError(t, err)
	ciphertext2, err := encryptor.Encrypt(plaintext)
	require.NoError(t, err)

	// The random nonce makes every sealing distinct.
	assert.NotEqual(t, ciphertext1, ciphertext2)
}

func TestEncryptor_InvalidCiphertext(t *testing.T) {
	key, err := NewKey()
	require.NoError(t, err)

	encryptor, err := NewEncryptor(key)
	require.NoError(t, err)

	testCases := []struct {
		name       string
		ciphertext string
	}{
		{name: "invalid base64", ciphertext: "not-valid-base64!!!"},
		{name: "too short", ciphertext: "YWJj"},
		{name: "corrupted data", ciphertext: "YWJjZGVmZ2hpamtsbW5vcHFyc3R1dnd4eXo="},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := encryptor.Decrypt(tc.ciphertext)
			assert.Error(t, err)
		})
	}
}

package crypto

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	c := New("正确的密码")
	plaintext := []byte("客户资料：张三，35岁")

	sealed, err := c.Encrypt(plaintext)
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "张三")

	opened, err := c.Decrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, plaintext, opened)
}

func TestEncryptProducesFreshCiphertext(t *testing.T) {
	c := New("pw")
	plaintext := []byte("same input")

	first, err := c.Encrypt(plaintext)
	require.NoError(t, err)
	second, err := c.Encrypt(plaintext)
	require.NoError(t, err)

	// fresh salt and nonce per call
	assert.NotEqual(t, first, second)
}

func TestDecryptWrongPassword(t *testing.T) {
	sealed, err := New("right").Encrypt([]byte("secret"))
	require.NoError(t, err)

	_, err = New("wrong").Decrypt(sealed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password")
}

func TestDecryptRejectsGarbage(t *testing.T) {
	_, err := New("pw").Decrypt([]byte("this was never encrypted"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an encrypted file")
}

func TestDecryptTruncated(t *testing.T) {
	sealed, err := New("pw").Encrypt([]byte("secret"))
	require.NoError(t, err)

	_, err = New("pw").Decrypt(sealed[:len(magic)+saltLength+2])
	assert.Error(t, err)
}

func TestEncryptFileDefaultsOutputPath(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "客户.xlsx")
	require.NoError(t, os.WriteFile(input, []byte("data"), 0o644))

	c := New("pw")
	out, err := c.EncryptFile(input, "")
	require.NoError(t, err)
	assert.Equal(t, input+EncryptedSuffix, out)

	restored, err := c.DecryptFile(out, "")
	require.NoError(t, err)
	assert.Equal(t, input, restored)

	data, err := os.ReadFile(restored)
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), data)
}

func TestDecryptToMemory(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "profile.docx")
	require.NoError(t, os.WriteFile(input, []byte("客户画像"), 0o644))

	c := New("pw")
	sealedPath, err := c.EncryptFile(input, "")
	require.NoError(t, err)

	plaintext, err := c.DecryptToMemory(sealedPath)
	require.NoError(t, err)
	assert.Equal(t, []byte("客户画像"), plaintext)
}

func TestEncryptDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "customer"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "customer", "a.xlsx"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.docx"), []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.txt"), []byte("s"), 0o644))

	c := New("pw")
	count, err := c.EncryptDirectory(dir, []string{".xlsx", ".docx"})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	assert.FileExists(t, filepath.Join(dir, "customer", "a.xlsx"+EncryptedSuffix))
	assert.FileExists(t, filepath.Join(dir, "b.docx"+EncryptedSuffix))
	assert.NoFileExists(t, filepath.Join(dir, "skip.txt"+EncryptedSuffix))

	// second pass skips the already-encrypted outputs
	again, err := c.EncryptDirectory(dir, []string{".xlsx", ".docx"})
	require.NoError(t, err)
	assert.Equal(t, 2, again)
}

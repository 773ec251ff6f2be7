// Package crypto provides password-based file encryption for sensitive
// source documents. It is independent of the generation pipeline.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// EncryptedSuffix marks encrypted files on disk.
const EncryptedSuffix = ".encrypted"

const (
	kdfIterations = 100_000
	keyLength     = 32
	saltLength    = 16
)

var magic = []byte("SALESENC1\x00")

// Cipher encrypts and decrypts files with a key derived from a password.
// Each file gets a fresh random salt and nonce, stored in its header.
type Cipher struct {
	password []byte
}

// New returns a Cipher for the given password.
func New(password string) *Cipher {
	return &Cipher{password: []byte(password)}
}

func (c *Cipher) aead(salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key(c.password, salt, kdfIterations, keyLength, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Encrypt seals plaintext into the self-describing encrypted format.
func (c *Cipher) Encrypt(plaintext []byte) ([]byte, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	aead, err := c.aead(salt)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(magic)+len(salt)+len(nonce)+len(plaintext)+aead.Overhead())
	out = append(out, magic...)
	out = append(out, salt...)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, plaintext, nil), nil
}

// Decrypt opens data produced by Encrypt. A wrong password surfaces as an
// authentication failure.
func (c *Cipher) Decrypt(data []byte) ([]byte, error) {
	if len(data) < len(magic)+saltLength || string(data[:len(magic)]) != string(magic) {
		return nil, fmt.Errorf("not an encrypted file")
	}
	rest := data[len(magic):]
	salt, rest := rest[:saltLength], rest[saltLength:]

	aead, err := c.aead(salt)
	if err != nil {
		return nil, err
	}
	if len(rest) < aead.NonceSize() {
		return nil, fmt.Errorf("encrypted file truncated")
	}
	nonce, ciphertext := rest[:aead.NonceSize()], rest[aead.NonceSize():]

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed, check the password: %w", err)
	}
	return plaintext, nil
}

// EncryptFile encrypts a file on disk. An empty outputPath defaults to the
// input path with the encrypted suffix appended.
func (c *Cipher) EncryptFile(inputPath, outputPath string) (string, error) {
	if outputPath == "" {
		outputPath = inputPath + EncryptedSuffix
	}
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return "", err
	}
	sealed, err := c.Encrypt(data)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(outputPath, sealed, 0o600); err != nil {
		return "", err
	}
	return outputPath, nil
}

// DecryptFile decrypts a file on disk. An empty outputPath strips the
// encrypted suffix, or appends ".decrypted" when there is none to strip.
func (c *Cipher) DecryptFile(inputPath, outputPath string) (string, error) {
	if outputPath == "" {
		if strings.HasSuffix(inputPath, EncryptedSuffix) {
			outputPath = strings.TrimSuffix(inputPath, EncryptedSuffix)
		} else {
			outputPath = inputPath + ".decrypted"
		}
	}
	plaintext, err := c.DecryptToMemory(inputPath)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(outputPath, plaintext, 0o600); err != nil {
		return "", err
	}
	return outputPath, nil
}

// DecryptToMemory decrypts a file without writing the plaintext to disk.
func (c *Cipher) DecryptToMemory(inputPath string) ([]byte, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, err
	}
	return c.Decrypt(data)
}

// EncryptDirectory encrypts every file under dir whose extension is in
// exts, skipping already-encrypted files. Returns the number encrypted.
func (c *Cipher) EncryptDirectory(dir string, exts []string) (int, error) {
	allowed := make(map[string]bool, len(exts))
	for _, ext := range exts {
		allowed[strings.ToLower(ext)] = true
	}

	count := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasSuffix(path, EncryptedSuffix) {
			return nil
		}
		if len(allowed) > 0 && !allowed[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		if _, err := c.EncryptFile(path, ""); err != nil {
			return fmt.Errorf("encrypting %s: %w", path, err)
		}
		count++
		return nil
	})
	return count, err
}

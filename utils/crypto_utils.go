package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"

	"github.com/Luismorlan/dept_ledger/model"
	"golang.org/x/crypto/argon2"
)

// argon2id parameters for wallet credentials.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	saltLen      = 16
)

// Hash message using SHA256
func SHA256(msg []byte) []byte {
	digest := sha256.Sum256(msg)
	return digest[:]
}

func NewSalt() ([]byte, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	return salt, nil
}

func deriveKey(secret string, salt []byte) []byte {
	return argon2.IDKey([]byte(secret), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// HashCredential salts and stretches a password so it is never stored in cleartext.
func HashCredential(secret string) (model.Credential, error) {
	salt, err := NewSalt()
	if err != nil {
		return model.Credential{}, err
	}
	return model.Credential{Salt: salt, Digest: deriveKey(secret, salt)}, nil
}

// VerifyCredential re-derives the digest and compares it in constant time.
func VerifyCredential(c model.Credential, secret string) bool {
	digest := deriveKey(secret, c.Salt)
	return subtle.ConstantTimeCompare(digest, c.Digest) == 1
}

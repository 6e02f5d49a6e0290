package blog

import (
	"crypto/sha256"
	"encoding/base64"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// bcryptMaxBytes is the longest input bcrypt accepts.
const bcryptMaxBytes = 72

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// bcryptInput returns the bytes fed to bcrypt. Passwords within the
// character limit can still exceed 72 bytes when they use multibyte
// characters; those are replaced by their SHA-256 digest.
func bcryptInput(password string) []byte {
	if len(password) <= bcryptMaxBytes {
		return []byte(password)
	}
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.RawStdEncoding.EncodeToString(sum[:]))
}

func hashPassword(password string, cost int) ([]byte, error) {
	return bcrypt.GenerateFromPassword(bcryptInput(password), cost)
}

func comparePassword(hash []byte, password string) error {
	return bcrypt.CompareHashAndPassword(hash, bcryptInput(password))
}

// compareDummy spends the same bcrypt work as a real comparison so unknown
// usernames cannot be told apart by response time.
func compareDummy(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	})
	_ = comparePassword(dummyHash, password)
}

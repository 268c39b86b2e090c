package subscribe

import (
	"crypto/md5"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"github.com/google/uuid"
)

// newCancelToken derives an unguessable per-subscriber token. The random
// nonce makes it independent of anything a caller could know about the email.
func newCancelToken(email string) string {
	emailSum := md5.Sum([]byte(email))
	seed := hex.EncodeToString(emailSum[:]) + uuid.NewString()
	sum := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:])
}

func tokensEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

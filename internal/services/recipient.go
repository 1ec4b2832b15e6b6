package services

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"github.com/google/uuid"
)

const recipientHashPrefix = "sha256$"

// ObfuscateRecipient derives the public recipient token for an award. The salt is a
// digest of a fresh UUID and awardIdentity, so it is never shared between awards.
// The salt is published next to the token: anyone who already knows a candidate
// email can confirm it, which is the point, and nobody else learns the address
// from the document alone. It is not a proof of identity.
func ObfuscateRecipient(email, awardIdentity string) (token, salt string) {
	sum := sha256.Sum256([]byte(uuid.NewString() + awardIdentity))
	salt = hex.EncodeToString(sum[:])
	return recipientToken(email, salt), salt
}

// VerifyRecipient reports whether email matches an obfuscated token and its salt.
func VerifyRecipient(email, token, salt string) bool {
	return subtle.ConstantTimeCompare([]byte(recipientToken(email, salt)), []byte(token)) == 1
}

func recipientToken(email, salt string) string {
	sum := sha256.Sum256([]byte(email + salt))
	return recipientHashPrefix + hex.EncodeToString(sum[:])
}

package cashfree

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"sort"
)

// WebhookVerifier checks payout webhook signatures. The provider signs the
// form fields by sorting keys, concatenating the values in key order and
// taking an HMAC-SHA256 over the result with the client secret.
type WebhookVerifier struct {
	secret []byte
}

// NewWebhookVerifier creates a verifier for the given client secret.
func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{secret: []byte(secret)}
}

// Verify recomputes the signature over the fields, excluding the signature
// field itself, and compares it in constant time.
func (v *WebhookVerifier) Verify(fields map[string]string, signature string) bool {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		if key == "signature" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	mac := hmac.New(sha256.New, v.secret)
	for _, key := range keys {
		mac.Write([]byte(fields[key]))
	}
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

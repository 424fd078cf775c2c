package ai

import (
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is how long a signed request token stays valid.
const DefaultTokenTTL = time.Hour

// Credential is a two-part API key of the form "id.secret".
type Credential struct {
	ID     string
	Secret string
}

// ParseCredential splits an "id.secret" API key.
func ParseCredential(key string) (Credential, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return Credential{}, &ConfigError{Field: "credential", Reason: "not set"}
	}
	parts := strings.Split(key, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Credential{}, &ConfigError{Field: "credential", Reason: "expected format {id}.{secret}"}
	}
	return Credential{ID: parts[0], Secret: parts[1]}, nil
}

// LogValue keeps the secret out of logs.
func (c Credential) LogValue() slog.Value {
	return slog.StringValue(c.ID + ".***")
}

// SignToken builds the short-lived HS256 token sent as the bearer credential.
// The output depends only on the credential, now and ttl.
func SignToken(cred Credential, now time.Time, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"api_key":   cred.ID,
		"exp":       now.Add(ttl).Unix(),
		"timestamp": now.Unix() * 1000,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	delete(token.Header, "typ")
	token.Header["sign_type"] = "SIGN"
	return token.SignedString([]byte(cred.Secret))
}

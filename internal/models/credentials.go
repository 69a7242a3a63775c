package models

import (
	"fmt"
	"strings"
)

// Credentials is one login set. TOTPSecret is empty when the account has
// no authenticator-app secret configured.
type Credentials struct {
	Username   string
	Password   string
	TOTPSecret string
}

// ParseCredentials parses "username:password[:totpSecret]". The literal
// secret "NA" means absent.
func ParseCredentials(raw string) (Credentials, error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return Credentials{}, fmt.Errorf("credential set must look like user:pass[:totp], got %d field(s)", len(parts))
	}

	c := Credentials{Username: parts[0], Password: parts[1]}
	if len(parts) > 2 && parts[2] != "NA" {
		c.TOTPSecret = parts[2]
	}
	return c, nil
}

// SplitCredentialSets splits the comma-separated FIDELITY env value into
// individual credential strings, dropping empties.
func SplitCredentialSets(env string) []string {
	var out []string
	for _, s := range strings.Split(env, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

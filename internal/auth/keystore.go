package auth

import (
	"fmt"
	"strings"
)

// KeyStore maps API keys to the principal they belong to. Injecting it into
// the request path keeps credentials out of global state and leaves room for
// a database-backed store later.
type KeyStore interface {
	// Principal returns the owner of a key and whether the key is valid.
	Principal(key string) (string, bool)
}

// staticKeyStore is an immutable in-memory KeyStore.
type staticKeyStore struct {
	byKey map[string]string
}

// NewStaticKeyStore parses a comma-separated "principal:key" list, the shape
// the API_KEYS environment variable carries.
func NewStaticKeyStore(spec string) (KeyStore, error) {
	byKey := make(map[string]string)
	for _, pair := range strings.Split(spec, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		principal, key, ok := strings.Cut(pair, ":")
		if !ok || principal == "" || key == "" {
			return nil, fmt.Errorf("malformed credential entry %q (want principal:key)", pair)
		}
		if _, dup := byKey[key]; dup {
			return nil, fmt.Errorf("duplicate API key for principal %q", principal)
		}
		byKey[key] = principal
	}
	if len(byKey) == 0 {
		return nil, fmt.Errorf("no credentials configured")
	}
	return &staticKeyStore{byKey: byKey}, nil
}

func (s *staticKeyStore) Principal(key string) (string, bool) {
	p, ok := s.byKey[key]
	return p, ok
}

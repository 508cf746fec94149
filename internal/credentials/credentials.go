// Package credentials looks up OFX server passwords from the environment.
package credentials

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// ErrNoPassword is returned when no password is set for an institution.
var ErrNoPassword = errors.New("no password configured")

// EnvPrefix prefixes every password variable.
const EnvPrefix = "SPENDTREND_PASSWORD_"

// EnvVar returns the variable holding the password for institution,
// e.g. "my-bank" -> SPENDTREND_PASSWORD_MY_BANK.
func EnvVar(institution string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, institution)
	return EnvPrefix + name
}

// Store resolves passwords from the process environment after loading
// any of the given dotenv files. Variables already set are not overridden.
type Store struct {
	files []string
}

// NewStore creates a Store. With no files, ".env" in the working directory is tried.
func NewStore(files ...string) *Store {
	return &Store{files: files}
}

// Password returns the password for institution.
func (s *Store) Password(institution string) (string, error) {
	if err := s.load(); err != nil {
		return "", err
	}
	key := EnvVar(institution)
	pw, ok := os.LookupEnv(key)
	if !ok || pw == "" {
		return "", fmt.Errorf("%w for %s: set %s", ErrNoPassword, institution, key)
	}
	return pw, nil
}

func (s *Store) load() error {
	files := s.files
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

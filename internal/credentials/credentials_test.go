package credentials

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvVar(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"chase", "SPENDTREND_PASSWORD_CHASE"},
		{"my-bank", "SPENDTREND_PASSWORD_MY_BANK"},
		{"Card 2", "SPENDTREND_PASSWORD_CARD_2"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EnvVar(tt.in), "EnvVar(%q)", tt.in)
	}
}

func TestPassword_FromEnvironment(t *testing.T) {
	t.Setenv("SPENDTREND_PASSWORD_TESTBANK", "s3cret")

	pw, err := NewStore(filepath.Join(t.TempDir(), "absent.env")).Password("testbank")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", pw)
}

func TestPassword_FromDotenv(t *testing.T) {
	key := "SPENDTREND_PASSWORD_DOTENVBANK"
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=from-file\n"), 0o600))

	pw, err := NewStore(path).Password("dotenvbank")
	require.NoError(t, err)
	assert.Equal(t, "from-file", pw)
}

func TestPassword_EnvironmentWins(t *testing.T) {
	key := "SPENDTREND_PASSWORD_BOTHBANK"
	t.Setenv(key, "from-env")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=from-file\n"), 0o600))

	pw, err := NewStore(path).Password("bothbank")
	require.NoError(t, err)
	assert.Equal(t, "from-env", pw)
}

func TestPassword_Missing(t *testing.T) {
	_, err := NewStore(filepath.Join(t.TempDir(), "absent.env")).Password("nobank")
	require.ErrorIs(t, err, ErrNoPassword)
	assert.Contains(t, err.Error(), "SPENDTREND_PASSWORD_NOBANK")
}

package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags", args: []string{"cmd",
			"-a", "127.0.0.1:9090", "-d", "db", "-s", "secret", "-t", "60",
			"-e", "production", "-l", "debug", "-u", "http://app.example", "-b", "redis", "-r", "redis:6379",
		}, expectPanic: false,
			expected: &Config{
				HTTPAddr:              "127.0.0.1:9090",
				DatabaseDSN:           "db",
				SecretKey:             "secret",
				TokenValidityDuration: 60 * time.Minute,
				Environment:           "production",
				LogLevel:              "debug",
				ClientURL:             "http://app.example",
				RevocationBackend:     "redis",
				RedisAddr:             "redis:6379",
			}},
		{name: "unknown flags are filtered out", args: []string{"cmd", "-x", "1", "-a", ":8080"},
			expected: &Config{HTTPAddr: ":8080"}},
		{name: "non-numeric validity", args: []string{"cmd", "-t", "day"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}

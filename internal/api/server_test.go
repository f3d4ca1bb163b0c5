package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/wordrush/internal/testutil"
)

func env(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestServerConfigFromEnv(t *testing.T) {
	cfg, err := ServerConfigFromEnv(env(nil))
	require.NoError(t, err)
	assert.Equal(t, DefaultServerConfig(), cfg)

	cfg, err = ServerConfigFromEnv(env(map[string]string{"HOST": "127.0.0.1", "PORT": "9090"}))
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 9090, cfg.Port)

	srv := NewServer(nil, cfg, testutil.NopLogger())
	assert.Equal(t, "127.0.0.1:9090", srv.Addr())
}

func TestServerConfigFromEnvRejectsBadPort(t *testing.T) {
	for _, port := range []string{"http", "0", "70000"} {
		_, err := ServerConfigFromEnv(env(map[string]string{"PORT": port}))
		assert.Error(t, err, port)
	}
}

func TestServerHasNoWriteTimeout(t *testing.T) {
	srv := NewServer(nil, DefaultServerConfig(), testutil.NopLogger())
	assert.Zero(t, srv.server.WriteTimeout)
}

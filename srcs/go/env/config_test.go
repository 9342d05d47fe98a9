package env

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParseConfigFromEnv_single(t *testing.T) {
	t.Setenv(HostnameEnvKey, "node-a")
	cfg, err := ParseConfigFromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.Single)
	assert.Len(t, cfg.InitPeers, 1)
	assert.Equal(t, "node-a", cfg.Hostname)
}

func Test_ParseConfigFromEnv(t *testing.T) {
	id := uuid.New()
	t.Setenv(SelfSpecEnvKey, "127.0.0.1:10001")
	t.Setenv(PeerListEnvKey, "127.0.0.1:10000,127.0.0.1:10001")
	t.Setenv(JobIDEnvKey, id.String())
	t.Setenv(HostnameEnvKey, "node-b")
	cfg, err := ParseConfigFromEnv()
	require.NoError(t, err)
	assert.False(t, cfg.Single)
	assert.Equal(t, uint16(10001), cfg.Self.Port)
	assert.Equal(t, id.ID(), cfg.Token())
	assert.Equal(t, "node-b", cfg.Hostname)
}

func Test_ParseConfigFromEnv_errors(t *testing.T) {
	t.Setenv(SelfSpecEnvKey, "127.0.0.1:10002")
	t.Setenv(PeerListEnvKey, "127.0.0.1:10000,127.0.0.1:10001")
	t.Setenv(JobIDEnvKey, uuid.New().String())
	_, err := ParseConfigFromEnv()
	assert.Error(t, err)

	t.Setenv(SelfSpecEnvKey, "127.0.0.1:10001")
	t.Setenv(JobIDEnvKey, "not-a-uuid")
	_, err = ParseConfigFromEnv()
	assert.Error(t, err)
}

func Test_SingleMachineEnv(t *testing.T) {
	cfg, err := SingleMachineEnv(2, 4, uuid.New())
	require.NoError(t, err)
	assert.Len(t, cfg.InitPeers, 4)
	assert.Equal(t, cfg.InitPeers[2], cfg.Self)
	_, err = SingleMachineEnv(4, 4, uuid.New())
	assert.Error(t, err)
}

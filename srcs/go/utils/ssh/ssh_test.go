package ssh

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_completeConfig(t *testing.T) {
	c := completeConfig(Config{User: "worker", Host: "10.0.0.2"})
	assert.Equal(t, "10.0.0.2:22", c.Host)
	assert.Equal(t, "worker", c.User)
	c = completeConfig(Config{User: "worker", Host: "10.0.0.2:2222"})
	assert.Equal(t, "10.0.0.2:2222", c.Host)
}

func Test_loadKey_missing(t *testing.T) {
	_, err := loadKey(filepath.Join(t.TempDir(), "no-such-key"))
	assert.Error(t, err)
}

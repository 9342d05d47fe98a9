package local

import (
	"context"
	"os"
	"path"
	"testing"
	"time"

	"github.com/lsds/hia2a/srcs/go/proc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_RunAll_OK(t *testing.T) {
	dir := t.TempDir()
	ps := []proc.Proc{
		{Name: "a", Prog: "sh", Args: []string{"-c", "echo $X"}, Envs: proc.Envs{"X": "hello"}, LogDir: dir},
		{Name: "b", Prog: "sh", Args: []string{"-c", "true"}, LogDir: dir},
	}
	require.NoError(t, RunAll(context.Background(), ps, false))
	bs, err := os.ReadFile(path.Join(dir, "a.stdout.log"))
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(bs))
}

func Test_RunAll_FailFast(t *testing.T) {
	ps := []proc.Proc{
		{Name: "bad", Prog: "sh", Args: []string{"-c", "exit 3"}},
		{Name: "slow", Prog: "sleep", Args: []string{"30"}},
	}
	t0 := time.Now()
	err := RunAll(context.Background(), ps, false)
	assert.EqualError(t, err, "2 tasks failed")
	assert.Less(t, int64(time.Since(t0)), int64(10*time.Second))
}

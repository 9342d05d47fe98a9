package job

import (
	"testing"

	"github.com/lsds/hia2a/srcs/go/config"
	"github.com/lsds/hia2a/srcs/go/env"
	"github.com/lsds/hia2a/srcs/go/plan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_CreateProcs(t *testing.T) {
	t.Setenv(config.GroupWidthEnvKey, "4")
	hl, err := plan.ParseHostList("10.0.0.1:2:node1,10.0.0.2:2")
	require.NoError(t, err)
	pl, err := hl.GenPeerList(4, plan.DefaultPortRange)
	require.NoError(t, err)
	j := New(hl, plan.DefaultPortRange, "hia2a-check", []string{"-op", "all"}, "logs")

	all := j.CreateAllProcs(pl)
	assert.Len(t, all, 4)
	ps := j.CreateProcs(pl, plan.MustParseIPv4("10.0.0.2"))
	require.Len(t, ps, 2)
	p := ps[1]
	assert.Equal(t, "10.0.0.2.10001", p.Name)
	assert.Equal(t, pl[3].String(), p.Envs[env.SelfSpecEnvKey])
	assert.Equal(t, pl.String(), p.Envs[env.PeerListEnvKey])
	assert.Equal(t, j.ID.String(), p.Envs[env.JobIDEnvKey])
	assert.Equal(t, "4", p.Envs[config.GroupWidthEnvKey])
	assert.Equal(t, "10.0.0.2", p.Host())
	assert.Equal(t, "node1", all[0].Host())
}

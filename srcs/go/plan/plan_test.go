package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParseHostList(t *testing.T) {
	hl, err := ParseHostList("192.168.1.11:4,192.168.1.12:2:node-b")
	require.NoError(t, err)
	require.Len(t, hl, 2)
	assert.Equal(t, 6, hl.Cap())
	assert.Equal(t, "node-b", hl[1].PublicAddr)
	assert.Equal(t, "192.168.1.11:4:192.168.1.11,192.168.1.12:2:node-b", hl.String())

	_, err = ParseHostList("192.168.1.11:x")
	assert.Error(t, err)
	_, err = ParseHostList("not-an-ip:2")
	assert.Error(t, err)
}

func Test_GenPeerList(t *testing.T) {
	hl, err := ParseHostList("10.0.0.1:2,10.0.0.2:3")
	require.NoError(t, err)
	pl, err := hl.GenPeerList(4, DefaultPortRange)
	require.NoError(t, err)
	require.Len(t, pl, 4)
	assert.Equal(t, "10.0.0.1:10000,10.0.0.1:10001,10.0.0.2:10000,10.0.0.2:10001", pl.String())
	assert.Equal(t, 2, pl.HostCount())
	assert.Equal(t, 2, pl.LocalSize(pl[3]))

	r, ok := pl.LocalRank(pl[3])
	assert.True(t, ok)
	assert.Equal(t, 1, r)

	_, err = hl.GenPeerList(6, DefaultPortRange)
	assert.Error(t, err)
}

func Test_ParsePeerList(t *testing.T) {
	pl, err := ParsePeerList("127.0.0.1:10000,127.0.0.1:10001")
	require.NoError(t, err)
	ql, err := ParsePeerList(pl.String())
	require.NoError(t, err)
	assert.True(t, pl.Eq(ql))
	assert.Len(t, pl.Others(pl[0]), 1)

	_, err = ParsePeerList("127.0.0.1:70000")
	assert.Error(t, err)
}

func Test_PortRange(t *testing.T) {
	var pr PortRange
	require.NoError(t, pr.Set("20000-20009"))
	assert.Equal(t, 10, pr.Cap())
	assert.Error(t, pr.Set("20009-20000"))
}

package hostfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Parse(t *testing.T) {
	text := `
	# ...
	127.0.0.1 slots=4 # ...
	# ...
   	127.0.0.2	slots=8 public_addr=node-2 # ...
	`
	hl, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, hl, 2)
	assert.Equal(t, 4, hl[0].Slots)
	assert.Equal(t, 8, hl[1].Slots)
	assert.Equal(t, "node-2", hl[1].PublicAddr)
}

func Test_Parse_invalid(t *testing.T) {
	if _, err := Parse("127.0.0.1 cores=4"); err == nil {
		t.Errorf("unknown key accepted")
	}
	if _, err := Parse("127.0.0.1 slots=-1"); err == nil {
		t.Errorf("negative slots accepted")
	}
}

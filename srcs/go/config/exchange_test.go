package config

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParseExchange(t *testing.T) {
	e, err := ParseExchange("Addressed")
	require.NoError(t, err)
	assert.Equal(t, ExchangeAddressed, e)
	e, err = ParseExchange("collective")
	require.NoError(t, err)
	assert.Equal(t, ExchangeCollective, e)
	_, err = ParseExchange("ring")
	assert.Error(t, err)
}

func Test_Exchange_flag(t *testing.T) {
	f := flag.NewFlagSet("test", flag.ContinueOnError)
	e := ExchangeCollective
	f.Var(&e, "exchange", "")
	require.NoError(t, f.Parse([]string{"-exchange", "addressed"}))
	assert.Equal(t, "addressed", e.String())
}

package monitor

import (
	"bytes"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/lsds/hia2a/srcs/go/plan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_rateAccumulator(t *testing.T) {
	var b bytes.Buffer
	a := plan.PeerID{IPv4: plan.MustParseIPv4("127.0.0.1"), Port: 10001}
	m := New(true, 0)
	defer m.Stop()
	m.Egress(3, a)
	m.Egress(4, a)
	m.Ingress(2, a)
	m.WriteTo(&b)
	const want = `egress_total_bytes{peer="127.0.0.1:10001"} 7
egress_rate_bytes_per_sec{peer="127.0.0.1:10001"} 0.000000
ingress_total_bytes{peer="127.0.0.1:10001"} 2
ingress_rate_bytes_per_sec{peer="127.0.0.1:10001"} 0.000000
`
	assert.Equal(t, want, b.String())
}

func Test_rate(t *testing.T) {
	g := newRateAccumulatorGroup("egress")
	a := plan.PeerID{IPv4: 1, Port: 2}
	g.getOrCreate(a).a.Add(1000)
	g.update(500 * time.Millisecond)
	assert.Equal(t, []float64{2000, 0}, g.getRates([]plan.PeerID{a, {IPv4: 1, Port: 3}}))
}

func Test_noop(t *testing.T) {
	m := New(false, time.Second)
	m.Egress(1, plan.PeerID{})
	var b bytes.Buffer
	m.WriteTo(&b)
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, []float64{0}, m.GetEgressRates([]plan.PeerID{{}}))
	m.Stop()
}

func Test_Server(t *testing.T) {
	m := New(true, 10*time.Millisecond)
	defer m.Stop()
	m.Ingress(5, plan.PeerID{IPv4: plan.MustParseIPv4("127.0.0.1"), Port: 1})
	s, err := StartServer(m, 42500)
	require.NoError(t, err)
	defer s.Close()
	resp, err := http.Get("http://127.0.0.1:42500/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	bs, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(bs), `ingress_total_bytes{peer="127.0.0.1:1"} 5`)
}

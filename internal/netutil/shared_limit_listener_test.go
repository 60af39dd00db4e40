package netutil

import (
	"net"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func newGauge(name string) prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{Name: name})
}

func TestSharedLimitListener(t *testing.T) {
	maxConns, concurrent, waiting := newGauge("max"), newGauge("concurrent"), newGauge("waiting")
	limiter := NewLimiterWithMetrics(1, maxConns, concurrent, waiting)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	l := SharedLimitListener(ln, limiter)
	defer l.Close()

	require.Equal(t, float64(1), testutil.ToFloat64(maxConns))

	accepted := make(chan net.Conn, 2)
	go func() {
		for {
			c, err := l.Accept()
			if err != nil {
				return
			}
			accepted <- c
		}
	}()

	for i := 0; i < 2; i++ {
		c, err := net.Dial("tcp", ln.Addr().String())
		require.NoError(t, err)
		defer c.Close()
	}

	first := <-accepted
	require.Equal(t, float64(1), testutil.ToFloat64(concurrent))

	select {
	case <-accepted:
		t.Fatal("second connection accepted while the only slot is taken")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, first.Close())

	select {
	case second := <-accepted:
		second.Close()
	case <-time.After(5 * time.Second):
		t.Fatal("second connection not accepted after the slot was released")
	}
}

func TestSharedLimitListenerKeepAlive(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	l := SharedLimitListener(ln, NewLimiterWithMetrics(1, newGauge("a"), newGauge("b"), newGauge("c")))
	defer l.Close()

	go func() {
		c, err := net.Dial("tcp", ln.Addr().String())
		if err == nil {
			defer c.Close()
			time.Sleep(100 * time.Millisecond)
		}
	}()

	c, err := l.Accept()
	require.NoError(t, err)
	defer c.Close()

	lc := c.(*limitedConn)
	require.NoError(t, lc.SetKeepAlive(true))
	require.NoError(t, lc.SetKeepAlivePeriod(time.Minute))

	require.ErrorIs(t, (&limitedConn{}).SetKeepAlive(true), errKeepaliveNotSupported)
}

package netutil

import (
	"errors"
	"net"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"gitlab.com/gitlab-org/artifact-gateway/metrics"
)

var errKeepaliveNotSupported = errors.New("keepalive not supported")

// Limiter is a pool of connection slots shared by every listener of the
// gateway. Use NewLimiter to create an instance.
type Limiter struct {
	sem                  chan struct{}
	concurrentConnsCount prometheus.Gauge
	waitingConnsCount    prometheus.Gauge
}

// NewLimiter creates a Limiter of n slots reporting to the gateway metrics
func NewLimiter(n int) *Limiter {
	return NewLimiterWithMetrics(n,
		metrics.LimitListenerMaxConns,
		metrics.LimitListenerConcurrentConns,
		metrics.LimitListenerWaitingConns,
	)
}

// NewLimiterWithMetrics creates a Limiter of n slots reporting to the given gauges
func NewLimiterWithMetrics(n int, maxConnsCount, concurrentConnsCount, waitingConnsCount prometheus.Gauge) *Limiter {
	maxConnsCount.Set(float64(n))

	return &Limiter{
		sem:                  make(chan struct{}, n),
		concurrentConnsCount: concurrentConnsCount,
		waitingConnsCount:    waitingConnsCount,
	}
}

// SharedLimitListener returns a Listener that accepts a connection only once
// the shared limiter has a free slot. Based on golang.org/x/net/netutil.
func SharedLimitListener(listener net.Listener, limiter *Limiter) net.Listener {
	return &sharedLimitListener{
		Listener: listener,
		limiter:  limiter,
		done:     make(chan struct{}),
	}
}

type sharedLimitListener struct {
	net.Listener
	closeOnce sync.Once
	limiter   *Limiter
	done      chan struct{} // closed by Close
}

// acquire blocks until a slot is free. It returns false when the listener
// was closed before a slot could be taken.
func (l *sharedLimitListener) acquire() bool {
	l.limiter.waitingConnsCount.Inc()
	defer l.limiter.waitingConnsCount.Dec()

	select {
	case <-l.done:
		return false
	case l.limiter.sem <- struct{}{}:
		l.limiter.concurrentConnsCount.Inc()
		return true
	}
}

func (l *sharedLimitListener) release() {
	<-l.limiter.sem
	l.limiter.concurrentConnsCount.Dec()
}

func (l *sharedLimitListener) Accept() (net.Conn, error) {
	acquired := l.acquire()

	// a closed listener fails Accept right away
	c, err := l.Listener.Accept()
	if err != nil {
		if acquired {
			l.release()
		}
		return nil, err
	}

	if !acquired {
		c.Close()
		return nil, net.ErrClosed
	}

	tcpConn, _ := c.(*net.TCPConn)

	return &limitedConn{
		Conn:    c,
		tcpConn: tcpConn,
		release: l.release,
	}, nil
}

func (l *sharedLimitListener) Close() error {
	err := l.Listener.Close()
	l.closeOnce.Do(func() { close(l.done) })
	return err
}

// limitedConn gives its slot back to the limiter on the first Close
type limitedConn struct {
	net.Conn
	tcpConn     *net.TCPConn
	releaseOnce sync.Once
	release     func()
}

func (c *limitedConn) Close() error {
	err := c.Conn.Close()
	c.releaseOnce.Do(c.release)
	return err
}

func (c *limitedConn) SetKeepAlive(enabled bool) error {
	if c.tcpConn == nil {
		return errKeepaliveNotSupported
	}

	return c.tcpConn.SetKeepAlive(enabled)
}

func (c *limitedConn) SetKeepAlivePeriod(period time.Duration) error {
	if c.tcpConn == nil {
		return errKeepaliveNotSupported
	}

	return c.tcpConn.SetKeepAlivePeriod(period)
}

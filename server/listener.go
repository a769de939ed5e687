package server

import (
	"net"
	"time"

	"github.com/week8/rpnserver/logger"
	"github.com/week8/rpnserver/metrics"
)

// monitorableListener tracks any opened connections in the metrics.
type monitorableListener struct {
	net.Listener
	metrics metrics.MetricsEngine
}

// monitorableConnection tracks any closed connections in the metrics.
type monitorableConnection struct {
	net.Conn
	metrics metrics.MetricsEngine
}

func (l *monitorableConnection) Close() error {
	err := l.Conn.Close()
	if err == nil {
		l.metrics.RecordConnectionClose(true)
	} else {
		logger.Errorf("Error closing connection: %v", err)
		l.metrics.RecordConnectionClose(false)
	}
	return err
}

func (ln *monitorableListener) Accept() (net.Conn, error) {
	tc, err := ln.Listener.Accept()
	if err != nil {
		logger.Errorf("Error accepting connection: %v", err)
		ln.metrics.RecordConnectionAccept(false)
		return tc, err
	}
	if tcp, ok := tc.(*net.TCPConn); ok {
		tcp.SetKeepAlive(true)
		tcp.SetKeepAlivePeriod(3 * time.Minute)
	}
	ln.metrics.RecordConnectionAccept(true)
	return &monitorableConnection{tc, ln.metrics}, nil
}

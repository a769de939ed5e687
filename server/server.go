package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/NYTimes/gziphandler"

	"github.com/week8/rpnserver/config"
	"github.com/week8/rpnserver/logger"
	"github.com/week8/rpnserver/metrics"
	metricsconfig "github.com/week8/rpnserver/metrics/config"
)

// Listen serves the API, admin and (if configured) Prometheus servers, blocking until the process
// receives SIGINT or SIGTERM and every server has shut down.
//
// listening, if non-nil, is closed once every listener is bound.
func Listen(cfg *config.Configuration, handler http.Handler, adminHandler http.Handler, metricsEngine *metricsconfig.DetailedMetricsEngine, listening chan<- struct{}) error {
	stopSignals := make(chan os.Signal, 1)
	signal.Notify(stopSignals, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(stopSignals)

	return serve(cfg, handler, adminHandler, metricsEngine, stopSignals, listening)
}

func serve(cfg *config.Configuration, handler http.Handler, adminHandler http.Handler, metricsEngine *metricsconfig.DetailedMetricsEngine, stopSignals <-chan os.Signal, listening chan<- struct{}) error {
	// Run the servers. Fan any process-stopper signals out to each server for graceful shutdowns.
	stopAdmin := make(chan os.Signal)
	stopMain := make(chan os.Signal)
	stopPrometheus := make(chan os.Signal)
	done := make(chan struct{})

	var connectionMetrics metrics.MetricsEngine
	if metricsEngine != nil {
		connectionMetrics = metricsEngine
	}

	mainServer := newMainServer(cfg, handler)
	mainListener, err := newListener(mainServer.Addr, connectionMetrics)
	if err != nil {
		return fmt.Errorf("main server: %v", err)
	}

	adminServer := newAdminServer(cfg, adminHandler)
	adminListener, err := newListener(adminServer.Addr, nil)
	if err != nil {
		mainListener.Close()
		return fmt.Errorf("admin server: %v", err)
	}

	go shutdownAfterSignals(mainServer, stopMain, done)
	go shutdownAfterSignals(adminServer, stopAdmin, done)
	go runServer(mainServer, "Main", mainListener)
	go runServer(adminServer, "Admin", adminListener)
	outbound := []chan<- os.Signal{stopMain, stopAdmin}

	if cfg.Metrics.Prometheus.Port != 0 && metricsEngine != nil && metricsEngine.PrometheusMetrics != nil {
		prometheusServer := newPrometheusServer(cfg, metricsEngine)
		prometheusListener, err := newListener(prometheusServer.Addr, nil)
		if err != nil {
			logger.Errorf("Error listening for TCP connections on %s: %v for prometheus server", prometheusServer.Addr, err)
		} else {
			go shutdownAfterSignals(prometheusServer, stopPrometheus, done)
			go runServer(prometheusServer, "Prometheus", prometheusListener)
			outbound = append(outbound, stopPrometheus)
		}
	}

	logger.Infof("listening on port %d", cfg.Port)
	if listening != nil {
		close(listening)
	}

	wait(stopSignals, done, outbound...)
	return nil
}

func newAdminServer(cfg *config.Configuration, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:    cfg.Host + ":" + strconv.Itoa(cfg.AdminPort),
		Handler: handler,
	}
}

func newMainServer(cfg *config.Configuration, handler http.Handler) *http.Server {
	var serverHandler = handler
	if cfg.EnableGzip {
		serverHandler = gziphandler.GzipHandler(handler)
	}

	return &http.Server{
		Addr:         cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Handler:      serverHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
}

func runServer(server *http.Server, name string, listener net.Listener) error {
	if server == nil {
		err := errors.New("server is nil")
		logger.Errorf("%s server quit with error: %v", name, err)
		return err
	}
	if listener == nil {
		err := errors.New("listener is nil")
		logger.Errorf("%s server quit with error: %v", name, err)
		return err
	}

	logger.Infof("%s server starting on: %s", name, server.Addr)
	err := server.Serve(listener)
	if err != http.ErrServerClosed {
		logger.Errorf("%s server quit with error: %v", name, err)
	}
	return err
}

func newListener(address string, metricsEngine metrics.MetricsEngine) (net.Listener, error) {
	ln, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("Error listening for TCP connections on %s: %v", address, err)
	}

	if metricsEngine != nil {
		ln = &monitorableListener{ln, metricsEngine}
	}

	return ln, nil
}

func wait(inbound <-chan os.Signal, done <-chan struct{}, outbound ...chan<- os.Signal) {
	sig := <-inbound

	for i := 0; i < len(outbound); i++ {
		go sendSignal(outbound[i], sig)
	}

	for i := 0; i < len(outbound); i++ {
		<-done
	}
}

func shutdownAfterSignals(server *http.Server, stopper <-chan os.Signal, done chan<- struct{}) {
	sig := <-stopper

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var s struct{}
	logger.Infof("Stopping %s because of signal: %s", server.Addr, sig.String())
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Failed to shutdown %s: %v", server.Addr, err)
	}
	done <- s
}

func sendSignal(to chan<- os.Signal, sig os.Signal) {
	to <- sig
}

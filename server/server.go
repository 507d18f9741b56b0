package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/golang/glog"
	"github.com/maio/mopub-adapter/config"
	metricsconfig "github.com/maio/mopub-adapter/metrics/config"
)

// Listen serves the admin endpoints, and the Prometheus endpoint when configured, until the process
// receives SIGINT or SIGTERM.
func Listen(cfg *config.Configuration, adminHandler http.Handler, metrics *metricsconfig.DetailedMetricsEngine) error {
	servers, err := openServers(cfg, adminHandler, metrics)
	if err != nil {
		return err
	}

	stopSignals := make(chan os.Signal, 1)
	signal.Notify(stopSignals, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(stopSignals)

	// Run the servers. Fan any process-stopper signals out to each server for graceful shutdowns.
	done := make(chan struct{})
	stoppers := make([]chan<- os.Signal, 0, len(servers))
	for _, s := range servers {
		stopper := make(chan os.Signal)
		stoppers = append(stoppers, stopper)
		go shutdownAfterSignals(s.server, stopper, done)
		go runServer(s.server, s.name, s.listener)
	}

	wait(stopSignals, done, stoppers...)
	return nil
}

type listeningServer struct {
	name     string
	server   *http.Server
	listener net.Listener
}

// openServers builds every configured server and opens its listener. Nothing is served yet, and on
// error every listener opened so far is closed again.
func openServers(cfg *config.Configuration, adminHandler http.Handler, metrics *metricsconfig.DetailedMetricsEngine) (servers []listeningServer, err error) {
	defer func() {
		if err != nil {
			for _, s := range servers {
				s.listener.Close()
			}
			servers = nil
		}
	}()

	adminServer := newAdminServer(cfg, adminHandler)
	adminListener, err := newListener(adminServer.Addr)
	if err != nil {
		return servers, err
	}
	servers = append(servers, listeningServer{name: "Admin", server: adminServer, listener: adminListener})

	if cfg.Metrics.Prometheus.Port != 0 {
		prometheusServer, err := newPrometheusServer(cfg, metrics)
		if err != nil {
			return servers, err
		}
		prometheusListener, err := newListener(prometheusServer.Addr)
		if err != nil {
			return servers, err
		}
		servers = append(servers, listeningServer{name: "Prometheus", server: prometheusServer, listener: prometheusListener})
	}
	return servers, nil
}

func newAdminServer(cfg *config.Configuration, handler http.Handler) *http.Server {
	var serverHandler = handler
	if cfg.EnableGzip {
		serverHandler = gziphandler.GzipHandler(handler)
	}

	return &http.Server{
		Addr:        cfg.Host + ":" + strconv.Itoa(cfg.AdminPort),
		Handler:     serverHandler,
		ReadTimeout: 15 * time.Second,
	}
}

func runServer(server *http.Server, name string, listener net.Listener) {
	glog.Infof("%s server starting on: %s", name, server.Addr)
	err := server.Serve(listener)
	glog.Errorf("%s server quit with error: %v", name, err)
}

func newListener(address string) (net.Listener, error) {
	ln, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("Error listening for TCP connections on %s: %v", address, err)
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
	glog.Infof("Stopping %s because of signal: %s", server.Addr, sig.String())
	if err := server.Shutdown(ctx); err != nil {
		glog.Errorf("Failed to shutdown %s: %v", server.Addr, err)
	}
	done <- s
}

func sendSignal(to chan<- os.Signal, sig os.Signal) {
	to <- sig
}

package util

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"
)

type MonitorServer struct {
	running *sync.Mutex
	srv     *http.Server
	srvMu   sync.RWMutex // protects srv field
	mux     *http.ServeMux
	port    func() int
}

// NewMonitorServer creates a server listening on the configured monitor_port.
func NewMonitorServer() *MonitorServer {
	return newMonitorServer(func() int { return Config.GetInt("monitor_port") })
}

func newMonitorServer(port func() int) *MonitorServer {
	var s MonitorServer
	s.running = &sync.Mutex{}
	s.srv = &http.Server{}
	s.mux = http.NewServeMux()
	s.port = port
	return &s
}

// Start serves in the background. The running lock is held until the server
// has shut down.
func (s *MonitorServer) Start() error {
	if !s.running.TryLock() {
		return fmt.Errorf("already running")
	}

	newSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port()),
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.srvMu.Lock()
	s.srv = newSrv
	s.srvMu.Unlock()

	go func() {
		if err := newSrv.ListenAndServe(); err != http.ErrServerClosed {
			Logger.Warn().Msgf("Problem loading monitor server: %v", err)
		}
		Logger.Debug().Msg("monitor server shutdown")
		s.running.Unlock()
	}()
	return nil
}

func (s *MonitorServer) AddHandler(path string, handler func(http.ResponseWriter, *http.Request)) {
	s.mux.HandleFunc(path, handler)
}

func (s *MonitorServer) AddRawHandler(path string, handler http.Handler) {
	s.mux.Handle(path, handler)
}

// Handler exposes the routes, for tests and embedding.
func (s *MonitorServer) Handler() http.Handler {
	return s.mux
}

// Shutdown stops the server if it is running.
func (s *MonitorServer) Shutdown(ctx context.Context) error {
	if s.running.TryLock() {
		s.running.Unlock()
		return nil
	}
	s.srvMu.RLock()
	currentSrv := s.srv
	s.srvMu.RUnlock()
	return currentSrv.Shutdown(ctx)
}

func (s *MonitorServer) Restart() {
	Logger.Debug().Msg("restarting monitor server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		Logger.Error().Msgf("Error shutting down monitor server: %v", err)
	}
	Logger.Debug().Msg("waiting for shutdown")
	s.running.Lock() // released by the serving goroutine on shutdown
	Logger.Debug().Msg("http not running - good for startup")
	s.running.Unlock()
	if err := s.Start(); err != nil {
		Logger.Error().Msgf("Error starting monitor server: %v", err)
	}
}

// Package httpsrv is a minimal graceful-shutdown wrapper around net/http.Server, adapted from
// go-utils/httpsrv. The teacher's version registers handlers against the package-level
// http.DefaultServeMux and takes a bare port number; dbserve instead owns its own chi.Mux (built
// by dbhttp.NewRouter), so this adaptation takes the handler and a full listen address directly
// rather than assuming a global mux.
package httpsrv

import (
	"context"
	"net/http"
	"time"

	"detectordb/internal/status"
)

const serverShutdownTimeoutSec = 10

// Server wraps an *http.Server with the same Start/Stop shape as go-utils/httpsrv.Server: Start
// blocks the calling goroutine until the server exits (typical usage is `go s.Start()`), and Stop
// performs a bounded graceful shutdown.
type Server struct {
	addr    string
	handler http.Handler
	logger  status.Logger
	failed  func(error)
	stop    chan bool
	server  *http.Server
}

// New creates a server that will listen on addr (e.g. ":8080") and serve handler. It calls failed
// (if non-nil) when the server exits with an error other than a clean shutdown. logger defaults
// to status.Default() when nil. The server is not started by this call.
func New(addr string, handler http.Handler, logger status.Logger, failed func(error)) *Server {
	if logger == nil {
		logger = status.Default()
	}
	return &Server{addr: addr, handler: handler, logger: logger, failed: failed, stop: make(chan bool)}
}

// Start blocks the current goroutine serving requests until Stop is called or the server fails.
func (s *Server) Start() {
	s.logger.Infof("listening on %s", s.addr)
	s.server = &http.Server{Addr: s.addr, Handler: s.handler}
	err := s.server.ListenAndServe()
	if err != nil {
		if err != http.ErrServerClosed {
			s.logger.Errorf("%s", err.Error())
			s.logger.Error("SERVER NOT RUNNING")
			if s.failed != nil {
				s.failed(err)
			}
		} else {
			s.logger.Infof("%s", err.Error())
		}
	}
	s.stop <- true
}

// Stop shuts the server down gracefully, waiting up to serverShutdownTimeoutSec seconds for
// in-flight requests to finish before returning.
func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeoutSec*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Warning(err.Error())
	}
	<-s.stop
}

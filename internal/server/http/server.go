package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/pluglog/pluglog/internal/runtime"
	"github.com/pluglog/pluglog/internal/server/http/controllers"
	logsvc "github.com/pluglog/pluglog/internal/services/logs"
)

// Server serves the HTTP API over a standard mux.
type Server struct {
	rt  *runtime.Runtime
	svc *logsvc.Service
	srv *http.Server
	lis net.Listener
}

// New builds the server and registers all controller routes.
func New(rt *runtime.Runtime, svc *logsvc.Service) *Server {
	if svc == nil {
		svc = logsvc.New(rt)
	}
	mux := http.NewServeMux()
	s := &Server{rt: rt, svc: svc, srv: &http.Server{Handler: cors(mux)}}
	controllers.NewControllerRegistry(rt, svc).RegisterAllRoutes(mux)
	return s
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.lis = l
	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(l) }()
	select {
	case <-ctx.Done():
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(cctx)
		return nil
	case err := <-errCh:
		return err
	}
}

// Addr returns the bound listen address, or empty before ListenAndServe.
func (s *Server) Addr() string {
	if s.lis == nil {
		return ""
	}
	return s.lis.Addr().String()
}

// Handler exposes the root handler for in-process testing.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

func (s *Server) Close() {
	if s.lis != nil {
		_ = s.lis.Close()
	}
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

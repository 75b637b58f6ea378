package shttp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"github.com/samber/do/v2"
	"github.com/willie68/go_heightmap/internal/logging"
)

// Config of the http servers
type Config struct {
	Port            int      `yaml:"port"`
	HealthPort      int      `yaml:"healthport"` // 0 serves health on the api port under /health
	AllowedOrigins  []string `yaml:"allowedorigins"`
	ShutdownTimeout int      `yaml:"shutdowntimeout"` // seconds
}

// SHttp runs the api and the health server
type SHttp struct {
	log     *slog.Logger
	cfg     Config
	slock   sync.Mutex
	servers []*http.Server
	wg      sync.WaitGroup
}

func Init(inj do.Injector) {
	cfg := do.MustInvoke[*Config](inj)
	do.ProvideValue(inj, New(*cfg))
}

func New(cfg Config) *SHttp {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10
	}
	return &SHttp{
		log: logging.New("shttp"),
		cfg: cfg,
	}
}

// StartServers starts listening in the background
func (s *SHttp) StartServers(router, healthRouter http.Handler) {
	if s.cfg.HealthPort == 0 {
		mux := chi.NewRouter()
		mux.Mount("/health", healthRouter)
		mux.Mount("/", router)
		s.start("api", s.cfg.Port, mux)
		return
	}
	s.start("api", s.cfg.Port, router)
	s.start("health", s.cfg.HealthPort, healthRouter)
}

func (s *SHttp) start(name string, port int, handler http.Handler) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.slock.Lock()
	s.servers = append(s.servers, srv)
	s.slock.Unlock()
	s.wg.Go(func() {
		s.log.Info(fmt.Sprintf("starting %s server on port %d", name, port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error(fmt.Sprintf("error on listen and serve of %s server: %v", name, err))
		}
	})
}

// ShutdownServers waits for open requests up to the shutdown timeout
func (s *SHttp) ShutdownServers() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(s.cfg.ShutdownTimeout)*time.Second)
	defer cancel()
	s.slock.Lock()
	servers := s.servers
	s.servers = nil
	s.slock.Unlock()
	for _, srv := range servers {
		if err := srv.Shutdown(ctx); err != nil {
			s.log.Error(fmt.Sprintf("error on shutdown of server %s: %v", srv.Addr, err))
		}
	}
	s.wg.Wait()
}

// Package shutdown runs the vatd listeners and stops them gracefully on
// SIGINT/SIGTERM or when any of them fails.
package shutdown

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vortex-fintech/go-vat/logger"
)

type Server interface {
	Serve(ctx context.Context) error
	GracefulStopWithTimeout(ctx context.Context) error
	ForceStop()
	Name() string
}

// Metrics is implemented by *metrics.VAT.
type Metrics interface {
	IncStopTotal(result string)
	ObserveGracefulDuration(d time.Duration)
	IncServeError(name string)
	IncServerStopResult(name, result string)
}

const (
	resultSuccess = "success"
	resultForce   = "force"

	// waitSlack is added to ShutdownTimeout while waiting for Serve to return.
	waitSlack = 2 * time.Second
)

type Config struct {
	ShutdownTimeout time.Duration
	HandleSignals   bool
	IsNormalError   func(error) bool
	Logger          logger.LoggerInterface
	Metrics         Metrics
}

type Manager struct {
	cfg     Config
	mu      sync.Mutex
	servers []Server
	stopped bool
}

func New(cfg Config) *Manager {
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	if cfg.IsNormalError == nil {
		cfg.IsNormalError = DefaultIsNormalErr
	}
	return &Manager{cfg: cfg}
}

func (m *Manager) Add(s Server) {
	m.mu.Lock()
	m.servers = append(m.servers, s)
	m.mu.Unlock()
}

func (m *Manager) snapshot() []Server {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Server(nil), m.servers...)
}

// Run serves until ctx is done, a signal arrives (HandleSignals) or a server
// fails, then stops everything. Normal close errors are not returned.
func (m *Manager) Run(ctx context.Context) error {
	if m.cfg.HandleSignals {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range m.snapshot() {
		g.Go(func() error { return m.serve(gctx, srv) })
	}

	waitCh := make(chan error, 1)
	go func() { waitCh <- g.Wait() }()

	select {
	case <-ctx.Done():
		m.cfg.Logger.Infow("shutdown: context done, stopping servers")
	case err := <-waitCh:
		if m.abnormal(err) {
			m.cfg.Logger.Warnw("shutdown: server failed, stopping the rest", "error", err)
		} else {
			m.cfg.Logger.Infow("shutdown: all servers returned, stopping")
		}
		m.Stop()
		if m.abnormal(err) {
			return err
		}
		return nil
	}

	m.Stop()

	select {
	case err := <-waitCh:
		if m.abnormal(err) {
			return err
		}
		return nil
	case <-time.After(m.cfg.ShutdownTimeout + waitSlack):
		return fmt.Errorf("shutdown: servers still running %s after stop", m.cfg.ShutdownTimeout+waitSlack)
	}
}

func (m *Manager) serve(ctx context.Context, srv Server) error {
	name := safeName(srv)
	m.cfg.Logger.Infow("shutdown: serve start", "server", name)
	err := srv.Serve(ctx)
	if m.abnormal(err) && ctx.Err() == nil {
		m.cfg.Logger.Errorw("shutdown: serve error", "server", name, "error", err)
		if m.cfg.Metrics != nil {
			m.cfg.Metrics.IncServeError(name)
		}
		return err
	}
	m.cfg.Logger.Infow("shutdown: serve stop", "server", name)
	return nil
}

func (m *Manager) abnormal(err error) bool {
	return err != nil && !m.cfg.IsNormalError(err)
}

// Stop gracefully stops every server within ShutdownTimeout and forces the
// ones that do not make it. Only the first call has an effect.
func (m *Manager) Stop() {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.stopped = true
	servers := append([]Server(nil), m.servers...)
	m.mu.Unlock()

	started := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.ShutdownTimeout)
	defer cancel()

	var forcedAny atomic.Bool
	var wg sync.WaitGroup
	for _, srv := range servers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result := m.stopOne(ctx, srv)
			if result == resultForce {
				forcedAny.Store(true)
			}
			if m.cfg.Metrics != nil {
				m.cfg.Metrics.IncServerStopResult(safeName(srv), result)
			}
		}()
	}
	wg.Wait()

	if m.cfg.Metrics != nil {
		m.cfg.Metrics.ObserveGracefulDuration(time.Since(started))
		result := resultSuccess
		if forcedAny.Load() {
			result = resultForce
		}
		m.cfg.Metrics.IncStopTotal(result)
	}
}

func (m *Manager) stopOne(ctx context.Context, srv Server) string {
	name := safeName(srv)
	err := srv.GracefulStopWithTimeout(ctx)
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	if err != nil {
		m.cfg.Logger.Warnw("shutdown: graceful stop failed, forcing", "server", name, "error", err)
		srv.ForceStop()
		return resultForce
	}
	m.cfg.Logger.Infow("shutdown: graceful stop done", "server", name)
	return resultSuccess
}

func DefaultIsNormalErr(err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, http.ErrServerClosed), errors.Is(err, context.Canceled):
		return true
	case strings.Contains(err.Error(), "use of closed network connection"):
		return true
	}
	return false
}

func safeName(s Server) string {
	if s == nil {
		return "server"
	}
	if n := s.Name(); n != "" {
		return n
	}
	return "server"
}

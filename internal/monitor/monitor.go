// Package monitor keeps the latest broadcast game state and the robots seen on
// the return port, and serves both over HTTP.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/danmuck/gcproto/internal/config"
	"github.com/danmuck/gcproto/internal/observability"
	"github.com/danmuck/gcproto/internal/protocol"
	"github.com/danmuck/gcproto/internal/robots"
	"github.com/danmuck/gcproto/internal/transport"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const maintainInterval = time.Second

type Monitor struct {
	cfg      config.MonitorConfig
	logger   zerolog.Logger
	registry *robots.Registry
	router   *gin.Engine
	started  time.Time
	now      func() time.Time

	mu       sync.RWMutex
	last     protocol.GameControlData
	lastFrom string
	lastAt   time.Time
	haveLast bool
	received uint64
	missed   uint64
}

func New(cfg config.MonitorConfig, logger zerolog.Logger) *Monitor {
	observability.RegisterMetrics()
	m := &Monitor{
		cfg:      cfg,
		logger:   logger.With().Str("monitor", cfg.Name).Logger(),
		registry: robots.NewRegistry(),
		router:   gin.New(),
		started:  time.Now(),
		now:      time.Now,
	}
	r := m.router
	r.Use(gin.Recovery())
	r.Use(m.observeRequests())
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(cfg.CorsOrigins),
		AllowMethods: []string{"GET"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})
	m.registerRoutes()
	return m
}

func (m *Monitor) Router() *gin.Engine {
	return m.router
}

func (m *Monitor) Registry() *robots.Registry {
	return m.registry
}

// Latest returns the most recent broadcast packet, if any arrived.
func (m *Monitor) Latest() (protocol.GameControlData, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.last, m.haveLast
}

func (m *Monitor) HandleGameState(from net.Addr, p protocol.GameControlData) {
	m.mu.Lock()
	var missed int
	var reordered bool
	if m.haveLast {
		missed, reordered = PacketGap(m.last.PacketNumber, p.PacketNumber)
	}
	prevState := m.last.State
	first := !m.haveLast
	m.last = p
	m.lastFrom = addrString(from)
	m.lastAt = m.now()
	m.haveLast = true
	m.received++
	m.missed += uint64(missed)
	m.mu.Unlock()

	observability.RecordPacketGap(missed)
	if missed > 0 {
		m.logger.Warn().Int("missed", missed).Uint8("packet", p.PacketNumber).Msg("packet gap")
	}
	if reordered {
		m.logger.Debug().Uint8("packet", p.PacketNumber).Msg("packet arrived out of order")
	}
	if first || prevState != p.State {
		m.logger.Info().
			Str("state", p.State.String()).
			Str("secondary", p.SecondaryState.String()).
			Uint16("secs_remaining", p.SecsRemaining).
			Msg("game state")
	}
}

func (m *Monitor) HandleReturn(from net.Addr, r protocol.ReturnData) {
	m.registry.Observe(addrString(from), r, m.now())
	if !r.Message.Known() {
		m.logger.Debug().Uint8("message", uint8(r.Message)).Uint8("team", r.Team).Msg("unknown return message")
	}
}

// HandleInvalid records a datagram that failed to decode. Bad return packets
// are charged to their source address in the registry.
func (m *Monitor) HandleInvalid(from net.Addr, kind protocol.PacketKind, err error) {
	m.logger.Debug().
		Err(err).
		Str("kind", kind.String()).
		Str("from", addrString(from)).
		Str("reason", protocol.ErrorReason(err)).
		Msg("invalid packet")
	if kind == protocol.KindReturn {
		m.registry.ObserveIllegal(addrString(from), m.now())
	}
}

// PacketGap compares consecutive packet numbers with wraparound at 256.
// Steps backwards of up to half the range count as reordering, not loss.
func PacketGap(prev, next uint8) (missed int, reordered bool) {
	delta := next - prev
	switch {
	case delta == 0:
		return 0, false
	case delta > 128:
		return 0, true
	default:
		return int(delta) - 1, false
	}
}

// Run serves the configured listeners and HTTP surface until ctx is done or
// one of them fails.
func (m *Monitor) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	listeners, err := m.listen()
	if err != nil {
		return err
	}

	errCh := make(chan error, len(listeners)+1)
	var wg sync.WaitGroup
	for _, l := range listeners {
		wg.Add(1)
		go func(l *transport.Listener) {
			defer wg.Done()
			if err := l.Serve(ctx); err != nil {
				errCh <- err
			}
		}(l)
	}

	var srv *http.Server
	if addr := strings.TrimSpace(m.cfg.HTTPAddr); addr != "" {
		srv = &http.Server{Addr: addr, Handler: m.router, ReadHeaderTimeout: 5 * time.Second}
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.logger.Info().Str("addr", addr).Msg("http listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("monitor http: %w", err)
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		m.maintain(ctx)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
		m.logger.Error().Err(runErr).Msg("monitor stopping")
	}
	cancel()
	if srv != nil {
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		_ = srv.Shutdown(shutdownCtx)
	}
	wg.Wait()
	return runErr
}

func (m *Monitor) listen() ([]*transport.Listener, error) {
	gs, err := transport.Listen(m.cfg.ListenAddr, protocol.KindGameState, transport.Handlers{
		GameState: m.HandleGameState,
		Invalid:   m.HandleInvalid,
	}, m.logger)
	if err != nil {
		return nil, err
	}
	listeners := []*transport.Listener{gs}
	if !m.cfg.ListenReturns {
		return listeners, nil
	}
	rt, err := transport.Listen(m.cfg.ReturnAddr, protocol.KindReturn, transport.Handlers{
		Return:  m.HandleReturn,
		Invalid: m.HandleInvalid,
	}, m.logger)
	if err != nil {
		_ = gs.Close()
		return nil, err
	}
	return append(listeners, rt), nil
}

func (m *Monitor) maintain(ctx context.Context) {
	ticker := time.NewTicker(maintainInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := m.now()
			if removed := m.registry.Prune(now, m.cfg.StaleAfter); removed > 0 {
				m.logger.Info().Int("removed", removed).Msg("pruned stale robots")
			}
			observability.SetRobotCounts(m.registry.StatusCounts(now))
		}
	}
}

func addrString(addr net.Addr) string {
	if addr == nil {
		return ""
	}
	return addr.String()
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}

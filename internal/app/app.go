package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/abrezinsky/eurovote/internal/auth"
	"github.com/abrezinsky/eurovote/internal/config"
	"github.com/abrezinsky/eurovote/internal/handlers"
	"github.com/abrezinsky/eurovote/internal/logger"
	"github.com/abrezinsky/eurovote/internal/repository"
	"github.com/abrezinsky/eurovote/internal/scoring"
	"github.com/abrezinsky/eurovote/internal/services"
	"github.com/abrezinsky/eurovote/internal/websocket"
	"github.com/abrezinsky/eurovote/pkg/resultsfeed"
)

// shutdownTimeout bounds how long in-flight requests get after Run's context ends
const shutdownTimeout = 5 * time.Second

// App holds all application dependencies
type App struct {
	log         logger.Logger
	cfg         *config.Config
	handlers    *handlers.Handlers
	repo        *repository.Repository
	nations     *services.NationService
	leaderboard *services.LeaderboardService
	cancelHub   context.CancelFunc
	closeOnce   sync.Once
}

// New creates and initializes a new application instance
func New(log logger.Logger, cfg *config.Config, feed resultsfeed.Client, adminAuth *auth.Auth) (*App, error) {
	profile, err := scoring.LoadBuiltin(cfg.Scoring.Profile)
	if err != nil {
		return nil, err
	}

	repo, err := repository.New(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Initialize services
	settingsService := services.NewSettingsService(log, repo)
	nationService := services.NewNationService(log, repo, feed)
	votingService := services.NewVotingService(log, repo)
	teamService := services.NewTeamService(log, repo)
	leaderboardService := services.NewLeaderboardService(log, repo, scoring.New(*profile))

	// Initialize WebSocket hub; every mutating service pushes through it
	ctx, cancel := context.WithCancel(context.Background())
	hub := websocket.New(log, settingsService)
	hub.Start(ctx)
	go hub.StartLeaderboardNotifier(ctx, websocket.DefaultFlushInterval)
	settingsService.SetBroadcaster(hub)
	nationService.SetBroadcaster(hub)
	votingService.SetBroadcaster(hub)
	teamService.SetBroadcaster(hub)

	h := handlers.New(
		nationService,
		votingService,
		teamService,
		settingsService,
		leaderboardService,
		adminAuth,
		hub,
		repo,
		log,
	)

	a := &App{
		log:         log,
		cfg:         cfg,
		handlers:    h,
		repo:        repo,
		nations:     nationService,
		leaderboard: leaderboardService,
		cancelHub:   cancel,
	}

	if err := a.seedFeedURL(ctx); err != nil {
		a.Close()
		return nil, err
	}

	log.Info("Scoring profile loaded", "profile", profile.Name, "categories", len(profile.Categories))
	return a, nil
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// Nations returns the nation service for command-line imports
func (a *App) Nations() services.NationServicer {
	return a.nations
}

// Leaderboard returns the leaderboard service for command-line reports
func (a *App) Leaderboard() services.LeaderboardServicer {
	return a.leaderboard
}

// Close stops the websocket hub and closes the database. Safe to call twice.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		if a.cancelHub != nil {
			a.cancelHub()
		}
		if err := a.repo.Close(); err != nil {
			a.log.Warn("Failed to close database", "error", err)
		}
	})
}

// Run listens on the configured port and serves until ctx is done
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.cfg.Addr(), err)
	}
	return a.Serve(ctx, ln)
}

// Serve serves HTTP on ln until ctx is done, then shuts down gracefully
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	baseURL := a.cfg.Server.BaseURL
	if baseURL == "" {
		ip := getPreferredIP(realNetworkProvider{})
		baseURL = fmt.Sprintf("http://%s:%d", ip, ln.Addr().(*net.TCPAddr).Port)
		a.setDefaultBaseURL(ctx, baseURL)
	} else if err := a.repo.SetSetting(ctx, repository.SettingBaseURL, baseURL); err != nil {
		a.log.Warn("Failed to set base_url", "error", err)
	}

	srv := &http.Server{Handler: a.Router(), ReadHeaderTimeout: 10 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.Info("Server starting", "url", baseURL)
		a.log.Info("Leaderboard URL", "url", baseURL+"/api/leaderboard")
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.log.Info("Server shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// seedFeedURL stores the configured results feed URL unless one was already
// saved from the admin API
func (a *App) seedFeedURL(ctx context.Context) error {
	if a.cfg.Feed.URL == "" {
		return nil
	}
	existing, err := a.repo.GetSetting(ctx, repository.SettingResultsFeedURL)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if existing != "" {
		return nil
	}
	return a.repo.SetSetting(ctx, repository.SettingResultsFeedURL, strings.TrimRight(a.cfg.Feed.URL, "/"))
}

// setDefaultBaseURL sets the base URL setting if not already configured
// or if current value uses localhost (which isn't useful for QR codes)
func (a *App) setDefaultBaseURL(ctx context.Context, baseURL string) {
	existing, _ := a.repo.GetSetting(ctx, repository.SettingBaseURL)

	if existing == "" || strings.Contains(existing, "localhost") {
		if err := a.repo.SetSetting(ctx, repository.SettingBaseURL, baseURL); err != nil {
			a.log.Warn("Failed to set default base_url", "error", err)
		} else {
			a.log.Info("Default base URL set", "url", baseURL)
		}
	}
}

// networkInterface wraps net.Interface for testing
type networkInterface interface {
	Flags() net.Flags
	Addrs() ([]net.Addr, error)
}

// realInterface wraps a real net.Interface
type realInterface struct {
	iface net.Interface
}

func (r realInterface) Flags() net.Flags {
	return r.iface.Flags
}

func (r realInterface) Addrs() ([]net.Addr, error) {
	return r.iface.Addrs()
}

// networkProvider is an interface for getting network interfaces (for testing)
type networkProvider interface {
	Interfaces() ([]networkInterface, error)
}

// realNetworkProvider implements networkProvider using actual net package
type realNetworkProvider struct{}

func (realNetworkProvider) Interfaces() ([]networkInterface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	result := make([]networkInterface, len(ifaces))
	for i, iface := range ifaces {
		result[i] = realInterface{iface: iface}
	}
	return result, nil
}

// getPreferredIP returns the best IPv4 address for LAN access, preferring
// private ranges. Falls back to localhost if no suitable address is found.
func getPreferredIP(provider networkProvider) string {
	ifaces, err := provider.Interfaces()
	if err != nil {
		return "localhost"
	}

	var candidates []net.IP
	for _, iface := range ifaces {
		flags := iface.Flags()
		if flags&net.FlagUp == 0 || flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}
			if ip == nil || ip.To4() == nil || ip.IsLoopback() {
				continue
			}
			candidates = append(candidates, ip)
		}
	}

	for _, ip := range candidates {
		if ip.IsPrivate() {
			return ip.String()
		}
	}
	if len(candidates) > 0 {
		return candidates[0].String()
	}
	return "localhost"
}

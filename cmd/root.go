package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"mccwk.com/rl/internal/config"
	"mccwk.com/rl/internal/enrich"
	"mccwk.com/rl/internal/logging"
	"mccwk.com/rl/internal/manager"
	"mccwk.com/rl/internal/session"
	"mccwk.com/rl/internal/store"
	"mccwk.com/rl/internal/tui"
)

const VERSION = "1.0.0"

var (
	debug bool
)

var rootCmd = &cobra.Command{
	Use:   "rl",
	Short: "Read-it-later link manager",
	Long: `Save links for later, enriched with AI-generated titles and summaries.

Running rl with no arguments opens the interactive TUI. Set RL_DATABASE_URL
to sync links to a remote Postgres database; without it links stay in a
local store on this device.`,
	Run: func(cmd *cobra.Command, args []string) {
		startTUI()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Display debugging output")
	cobra.OnInitialize(setupLogging)
}

func setupLogging() {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	if os.Getenv("MODE") == "production" {
		logger := slog.New(slog.NewJSONHandler(os.Stderr,
			&slog.HandlerOptions{
				Level: level,
			}))
		slog.SetDefault(logger)
	} else {
		logger := slog.New(tint.NewHandler(os.Stderr,
			&tint.Options{
				Level: level,
			}))
		slog.SetDefault(logger)
	}
}

// appContext bundles everything a command needs: config, the device cache,
// the optional remote database, sessions, and the metadata resolver.
type appContext struct {
	cfg      config.Config
	cache    *store.Cache
	db       *gorm.DB // nil in local-only mode
	sessions *session.Manager
	resolver *enrich.Resolver
}

func bootstrap() (*appContext, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	cache, err := store.OpenCache(cfg.CachePath())
	if err != nil {
		return nil, fmt.Errorf("opening device cache: %w", err)
	}

	var db *gorm.DB
	if cfg.Remote() {
		db, err = store.NewPostgres(cfg.DatabaseURL)
		if err != nil {
			cache.Close()
			return nil, fmt.Errorf("connecting to remote database: %w", err)
		}
	}

	return &appContext{
		cfg:      cfg,
		cache:    cache,
		db:       db,
		sessions: session.NewManager(db),
		resolver: enrich.NewResolver(cfg.LLM.Provider, cfg.LLM.Model, cfg.LLM.APIKey),
	}, nil
}

func (a *appContext) Close() {
	if a.cache != nil {
		a.cache.Close()
	}
}

// signIn establishes the account for a headless command. Remote credentials
// come from RL_EMAIL/RL_PASSWORD; without them (or without a remote database)
// the guest session is used and links stay local.
func (a *appContext) signIn(ctx context.Context) (session.Account, error) {
	if a.db == nil {
		return a.sessions.Guest(), nil
	}
	email := os.Getenv("RL_EMAIL")
	password := os.Getenv("RL_PASSWORD")
	if email == "" || password == "" {
		slog.Debug("RL_EMAIL/RL_PASSWORD not set, using local guest store")
		return a.sessions.Guest(), nil
	}
	return a.sessions.SignIn(ctx, email, password)
}

func (a *appContext) storeFor(acct session.Account) (store.Store, error) {
	if a.db == nil || acct.IsGuest() {
		return store.NewLocalStore(a.cache, acct.ID)
	}
	return store.NewRemoteStore(a.db, a.cache, acct.ID), nil
}

// managerFor signs in and returns a loaded link manager for the account.
func (a *appContext) managerFor(ctx context.Context) (*manager.Manager, session.Account, error) {
	acct, err := a.signIn(ctx)
	if err != nil {
		return nil, session.Account{}, err
	}
	st, err := a.storeFor(acct)
	if err != nil {
		return nil, session.Account{}, err
	}
	mgr := manager.New(st, a.resolver)
	if err := mgr.Load(ctx); err != nil {
		return nil, session.Account{}, err
	}
	return mgr, acct, nil
}

func startTUI() {
	app, err := bootstrap()
	if err != nil {
		slog.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	// Route logs into the TUI's log panel instead of over the screen.
	sink := logging.NewMemorySink(logging.DefaultMaxEntries)
	slog.SetDefault(slog.New(sink))

	model := tui.NewModel(app.cfg, app.db, app.cache, app.sessions, app.resolver, sink)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		slog.Error("TUI error", "error", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pollar/powiazania/assets"
	"github.com/pollar/powiazania/internal/config"
	"github.com/pollar/powiazania/internal/daily"
	"github.com/pollar/powiazania/internal/fallback"
	"github.com/pollar/powiazania/internal/game"
	"github.com/pollar/powiazania/internal/httpserver"
	"github.com/pollar/powiazania/internal/share"
	"github.com/pollar/powiazania/internal/source"
	"github.com/pollar/powiazania/internal/store"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("powiazania")
		os.Exit(1)
	}
}

// app holds what every subcommand needs once config is loaded.
type app struct {
	cfg *config.Config
	db  *sql.DB
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		a          app
	)
	root := &cobra.Command{
		Use:           "powiazania",
		Short:         "Powiązania daily puzzle server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			if configPath == "" {
				configPath = os.Getenv("CONFIG_FILE")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			setupLogging(cfg)
			a.cfg = cfg
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.db != nil {
				_ = a.db.Close()
			}
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE:  func(cmd *cobra.Command, args []string) error { return a.serve(cmd.Context()) },
	}
	today := &cobra.Command{
		Use:   "today",
		Short: "Resolve today's puzzle and print it as JSON",
		RunE:  func(cmd *cobra.Command, args []string) error { return a.today(cmd.Context()) },
	}
	shareCmd := &cobra.Command{
		Use:   "share",
		Short: "Print the share text of the stored session",
		RunE:  func(cmd *cobra.Command, args []string) error { return a.share(cmd.Context()) },
	}
	root.AddCommand(serve, today, shareCmd)
	root.RunE = serve.RunE
	return root
}

func setupLogging(cfg *config.Config) {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// openDB opens and migrates the SQLite database once.
func (a *app) openDB() (*sql.DB, error) {
	if a.db != nil {
		return a.db, nil
	}
	db, err := store.OpenDB(a.cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := store.Migrate(db, assets.Migrations()); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	a.db = db
	return db, nil
}

// sessionStore builds the KV backend selected by STORE_DRIVER.
func (a *app) sessionStore() (*store.SessionStore, error) {
	switch a.cfg.StoreDriver {
	case "memory":
		return store.NewSessionStore(store.NewMemory()), nil
	case "file":
		return store.NewSessionStore(store.NewFile(a.cfg.StoreDir)), nil
	default:
		db, err := a.openDB()
		if err != nil {
			return nil, err
		}
		return store.NewSessionStore(store.NewSQLite(db)), nil
	}
}

func (a *app) resolver() (*source.Resolver, error) {
	var (
		fb  *fallback.Source
		err error
	)
	if a.cfg.FallbackFile != "" {
		fb, err = fallback.New(a.cfg.FallbackFile)
	} else {
		fb, err = fallback.Default()
	}
	if err != nil {
		return nil, err
	}
	client := source.NewClient(a.cfg.APIBase, a.cfg.FetchTimeout)
	return source.NewResolver(client, fb), nil
}

func (a *app) serve(ctx context.Context) error {
	st, err := a.sessionStore()
	if err != nil {
		return err
	}
	res, err := a.resolver()
	if err != nil {
		return err
	}
	db, err := a.openDB()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := game.New(st, res)
	engine.Init(ctx)

	srv := httpserver.New(engine, daily.NewStore(db), httpserver.Options{ClientOrigin: a.cfg.ClientOrigin})
	log.Info().Str("port", a.cfg.Port).Str("store", a.cfg.StoreDriver).Msg("starting powiazania server")
	if err := srv.Run(ctx, ":"+a.cfg.Port); err != nil {
		log.Error().Err(err).Msg("server exited")
		return err
	}
	return nil
}

func (a *app) today(ctx context.Context) error {
	res, err := a.resolver()
	if err != nil {
		return err
	}
	r := res.Resolve(ctx, daily.Clock(nil).Today(), nil)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{"puzzle": r.Puzzle, "isMock": r.Mock})
}

func (a *app) share(ctx context.Context) error {
	st, err := a.sessionStore()
	if err != nil {
		return err
	}
	sess, err := st.Load(ctx)
	if err != nil {
		return err
	}
	if sess == nil {
		return fmt.Errorf("no stored session under %q", store.Key)
	}
	fmt.Println(share.Text(sess.Puzzle, sess.Guesses))
	return nil
}

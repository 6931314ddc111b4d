package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/baselog-dev/baselog/internal/cli/auth"
	"github.com/baselog-dev/baselog/internal/cli/client"
	"github.com/baselog-dev/baselog/internal/cli/config"
	"github.com/baselog-dev/baselog/internal/dashboard"
	"github.com/baselog-dev/baselog/internal/logger"
	"github.com/baselog-dev/baselog/internal/notice"
	"github.com/baselog-dev/baselog/internal/session"
)

// Env carries the process-level dependencies the commands are built from.
type Env struct {
	Tokens      auth.TokenStore
	LoadConfig  func() (*config.Config, error)
	SaveConfig  func(*config.Config) error
	Stdin       io.ReadCloser
	Interactive func() bool
}

// DefaultEnv uses the OS keychain, the user config file and the terminal.
func DefaultEnv() *Env {
	return &Env{
		Tokens:     auth.Default,
		LoadConfig: config.Load,
		SaveConfig: config.Save,
		Stdin:      os.Stdin,
		Interactive: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
}

func (e *Env) interactive() bool {
	return e.Interactive != nil && e.Interactive()
}

// App is everything a command needs once the session has been restored.
type App struct {
	Config    *config.Config
	Session   *session.Store
	Client    *client.Client
	Dashboard *dashboard.Dashboard
	Log       zerolog.Logger
}

// bootstrap wires storage, session, clients and dashboard, then restores
// the persisted session.
func bootstrap(cmd *cobra.Command, env *Env) (*App, error) {
	cfg, err := env.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(cmd.ErrOrStderr(), cfg.LogLevel, "console")
	if cfg.LogLevel == "" {
		log = log.Level(zerolog.WarnLevel)
	}
	notifier := notice.NewPrinter(cmd.ErrOrStderr())
	nav := session.NavigatorFunc(func(route string) {
		log.Debug().Str("route", route).Msg("navigate")
	})

	// The session talks to the backend through a plain client so that a
	// 401 on its own calls never re-enters the sign-out path.
	plain := client.New(cfg.BaseURL, client.WithMiddleware(client.Logging(log)))
	store := session.New(plain, env.Tokens, session.WithNavigator(nav), session.WithLogger(log))

	api := client.New(cfg.BaseURL, client.WithMiddleware(
		client.BearerToken(store, env.Tokens),
		client.SignOutOnUnauthorized(store.SignOut, notifier),
		client.Logging(log),
	))

	store.Initialize(cmd.Context())

	return &App{
		Config:    cfg,
		Session:   store,
		Client:    api,
		Dashboard: dashboard.New(store, api, notifier, nav),
		Log:       log,
	}, nil
}

// runner adapts a command body that needs an App to cobra's RunE.
func runner(env *Env, fn func(cmd *cobra.Command, app *App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := bootstrap(cmd, env)
		if err != nil {
			return err
		}
		return fn(cmd, app, args)
	}
}

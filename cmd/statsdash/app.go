package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/dkoosis/statsdash/internal/config"
	"github.com/dkoosis/statsdash/internal/logging"
	"github.com/dkoosis/statsdash/internal/version"
	"github.com/dkoosis/statsdash/pkg/api"
	"github.com/dkoosis/statsdash/pkg/metrics"
	"github.com/dkoosis/statsdash/pkg/pages"
	"github.com/dkoosis/statsdash/pkg/query"
	"github.com/dkoosis/statsdash/pkg/storage"
)

const (
	defaultWidth = 80

	exitFailure = 1
	exitUsage   = 2

	memoryStore = ":memory:"
)

// ioEnv is the terminal the command talks to.
type ioEnv struct {
	stdout io.Writer
	stderr io.Writer
	isTTY  func() bool
	width  func() int
}

// run executes the CLI and returns the exit code.
// This allows tests to invoke the logic without os.Exit() terminating the test runner.
func run(ctx context.Context, args []string, env ioEnv) int {
	app := newApp(env)
	err := app.RunContext(ctx, args)
	if err == nil {
		return 0
	}
	fmt.Fprintf(env.stderr, "Error: %v\n", err)
	var exitErr cli.ExitCoder
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return exitFailure
}

func usageError(format string, args ...any) error {
	return cli.Exit(fmt.Sprintf(format, args...), exitUsage)
}

func newApp(env ioEnv) *cli.App {
	return &cli.App{
		Name:      version.Name,
		Usage:     "Top, entry and exit pages of a site",
		Version:   version.Version,
		Writer:    env.stdout,
		ErrWriter: env.stderr,
		// run reports errors and picks the exit code.
		ExitErrHandler: func(*cli.Context, error) {},
		OnUsageError: func(_ *cli.Context, err error, _ bool) error {
			return usageError("%v", err)
		},
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "config file (default: ./" + config.FileName + ")"},
			&cli.StringFlag{Name: "base-url", Usage: "stats API base URL"},
			&cli.StringFlag{Name: "site", Usage: "site domain"},
			&cli.StringFlag{Name: "api-key", Usage: "stats API key"},
			&cli.StringFlag{Name: "shared-link-auth", Usage: "shared link password"},
			&cli.StringFlag{Name: "period", Usage: "realtime, day, 7d, 30d, month, year or custom"},
			&cli.StringFlag{Name: "date", Usage: "date or range the period refers to"},
			&cli.StringFlag{Name: "goal", Usage: "scope the report to a goal"},
			&cli.StringSliceFlag{Name: "filter", Usage: "extra filter as key=value (repeatable)"},
			&cli.StringFlag{Name: "locale", Usage: "number locale, e.g. pt-BR"},
			&cli.StringFlag{Name: "currency", Usage: "ISO 4217 revenue currency"},
			&cli.BoolFlag{Name: "small", Usage: "compact layout without the page name column"},
			&cli.StringFlag{Name: "store", Usage: "state database path, or " + memoryStore},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
			&cli.StringFlag{Name: "log-file", Usage: "rotated log file"},
		},
		Action: dashAction(env),
		Commands: []*cli.Command{
			{
				Name:   "dash",
				Usage:  "interactive report on a terminal, plain snapshot otherwise",
				Action: dashAction(env),
			},
			{
				Name:  "report",
				Usage: "print the report once",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "tab", Usage: "select pages, entry-pages or exit-pages first"},
				},
				Action: reportAction(env),
			},
			{
				Name:      "tab",
				Usage:     "show or select the remembered tab",
				ArgsUsage: "[pages|entry-pages|exit-pages]",
				Action:    tabAction(env),
			},
			{
				Name:  "version",
				Usage: "print version information",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "also print resolved settings"},
				},
				Action: versionAction(env),
			},
		},
	}
}

// session is everything a command needs once flags are resolved.
type session struct {
	cfg    *config.Config
	ctrl   *pages.Controller
	query  query.Query
	logs   io.Closer
	closer func() error
}

func (s *session) Close() {
	if s.closer != nil {
		if err := s.closer(); err != nil {
			slog.Warn("closing store failed", "error", err)
		}
	}
	if s.logs != nil {
		_ = s.logs.Close()
	}
}

func flagsFrom(c *cli.Context) config.Flags {
	return config.Flags{
		ConfigPath:     c.String("config"),
		BaseURL:        c.String("base-url"),
		Site:           c.String("site"),
		APIKey:         c.String("api-key"),
		SharedLinkAuth: c.String("shared-link-auth"),
		Period:         c.String("period"),
		Date:           c.String("date"),
		Locale:         c.String("locale"),
		Currency:       c.String("currency"),
		StorePath:      c.String("store"),
		LogLevel:       c.String("log-level"),
		LogFile:        c.String("log-file"),
		SmallModal:     c.Bool("small"),
		SmallModalSet:  c.IsSet("small"),
	}
}

// parseFilters reads --goal and --filter into query filters.
func parseFilters(goal string, raw []string) (query.Filters, error) {
	filters := query.Filters{}
	for _, kv := range raw {
		k, v, ok := strings.Cut(kv, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("malformed --filter %q (expected key=value)", kv)
		}
		filters[k] = strings.TrimSpace(v)
	}
	if goal != "" {
		filters[query.FilterGoal] = goal
	}
	return filters, nil
}

// open resolves configuration and builds the controller. interactive keeps
// log output off the terminal.
func open(c *cli.Context, env ioEnv, interactive bool) (*session, error) {
	cfg, err := config.Load(flagsFrom(c))
	if err != nil {
		return nil, usageError("%v", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, usageError("%v", err)
	}
	filters, err := parseFilters(c.String("goal"), c.StringSlice("filter"))
	if err != nil {
		return nil, usageError("%v", err)
	}
	if err := metrics.SetLocale(cfg.Locale, cfg.Currency); err != nil {
		return nil, usageError("%v", err)
	}

	s := &session{cfg: cfg, query: cfg.Query(filters)}

	var console io.Writer
	if !interactive {
		console = env.stderr
	}
	s.logs, err = logging.Setup(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile, Console: console})
	if err != nil {
		return nil, fmt.Errorf("setup logging: %w", err)
	}
	if cfg.Path != "" {
		slog.Debug("loaded config", "path", cfg.Path)
	}
	pages.SetTheme(cfg.Theme)

	store, closer, err := openStore(cfg.StorePath)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.closer = closer

	client := api.NewClient(cfg.BaseURL,
		api.WithAPIKey(cfg.APIKey),
		api.WithSharedLinkAuth(cfg.SharedLinkAuth),
		api.WithUserAgent(version.UserAgent()),
	)
	s.ctrl = pages.NewController(pages.Deps{Client: client, Site: api.Site{Domain: cfg.Site}}, store)
	return s, nil
}

func openStore(path string) (storage.Store, func() error, error) {
	if path == memoryStore {
		return storage.NewMemory(), nil, nil
	}
	if path == "" {
		p, err := storage.DefaultPath()
		if err != nil {
			return nil, nil, err
		}
		path = p
	}
	db, err := storage.OpenSQLite(path)
	if err != nil {
		return nil, nil, err
	}
	return db, db.Close, nil
}

func dashAction(env ioEnv) cli.ActionFunc {
	return func(c *cli.Context) error {
		interactive := env.isTTY()
		s, err := open(c, env, interactive)
		if err != nil {
			return err
		}
		defer s.Close()

		if interactive {
			slog.Info("starting pages report", "site", s.cfg.Site, "mode", s.ctrl.Mode())
			return pages.Run(c.Context, s.ctrl, pages.Options{Query: s.query, SmallModal: s.cfg.SmallModal})
		}
		return pages.Snapshot(c.Context, s.ctrl, s.query, s.cfg.SmallModal, env.width(), env.stdout)
	}
}

func reportAction(env ioEnv) cli.ActionFunc {
	return func(c *cli.Context) error {
		var mode pages.Mode
		if tab := c.String("tab"); tab != "" {
			m, err := pages.ParseMode(tab)
			if err != nil {
				return usageError("%v", err)
			}
			mode = m
		}

		s, err := open(c, env, false)
		if err != nil {
			return err
		}
		defer s.Close()

		if mode != "" {
			if err := s.ctrl.Select(mode); err != nil {
				slog.Warn("pages tab not persisted", "mode", mode, "error", err)
			}
		}
		return pages.Snapshot(c.Context, s.ctrl, s.query, s.cfg.SmallModal, env.width(), env.stdout)
	}
}

func tabAction(env ioEnv) cli.ActionFunc {
	return func(c *cli.Context) error {
		if c.NArg() > 1 {
			return usageError("tab takes at most one argument")
		}
		var mode pages.Mode
		if c.NArg() == 1 {
			m, err := pages.ParseMode(c.Args().First())
			if err != nil {
				return usageError("%v", err)
			}
			mode = m
		}

		s, err := open(c, env, false)
		if err != nil {
			return err
		}
		defer s.Close()

		if mode != "" {
			if err := s.ctrl.Select(mode); err != nil {
				return err
			}
		}
		fmt.Fprintf(env.stdout, "%s\t%s\n", s.ctrl.Mode(), s.ctrl.Header())
		return nil
	}
}

func versionAction(env ioEnv) cli.ActionFunc {
	return func(c *cli.Context) error {
		fmt.Fprintln(env.stdout, version.String())
		if !c.Bool("verbose") {
			return nil
		}
		cfg, err := config.Load(flagsFrom(c))
		if err != nil {
			return usageError("%v", err)
		}
		if cfg.Path != "" {
			fmt.Fprintf(env.stdout, "config: %s\n", cfg.Path)
		}
		for _, line := range cfg.Describe() {
			fmt.Fprintln(env.stdout, line)
		}
		return nil
	}
}

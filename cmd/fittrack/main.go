package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"fittrack/fitness-app/internal/app"
	"fittrack/fitness-app/internal/config"
	"fittrack/fitness-app/internal/domain"
	"fittrack/fitness-app/internal/service"
	"fittrack/fitness-app/internal/session"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

// cli holds what every command needs once the root has started up.
type cli struct {
	configDir string
	statePath string
	asJSON    bool
	opts      []app.Option

	app     *app.App
	session *session.AppContext
	out     io.Writer
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one command line and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, opts ...app.Option) int {
	c := &cli{opts: opts, out: stdout}
	root := c.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if c.app != nil {
		if cerr := c.app.Close(); cerr != nil {
			fmt.Fprintln(stderr, "WARN: closing store:", cerr)
		}
	}
	if err != nil {
		fmt.Fprintln(stderr, "Error:", friendly(err))
		return 1
	}
	return 0
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "fittrack",
		Short:         "Track workouts, meals and progress against an AI-generated weekly plan",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.start(cmd.Context())
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&c.configDir, "config-dir", ".", "Directory holding config.yaml and .env")
	pf.StringVar(&c.statePath, "state", defaultStatePath(), "Local state file used by the kv storage driver")
	pf.BoolVar(&c.asJSON, "json", false, "Print results as JSON")

	root.AddCommand(
		c.registerCommand(),
		c.loginCommand(),
		c.logoutCommand(),
		c.whoamiCommand(),
		c.usersCommand(),
		c.profileCommand(),
		c.planCommand(),
		c.logCommand(),
		c.toggleCommand(),
		c.waterCommand(),
		c.statsCommand(),
		c.chartCommand(),
		c.chatCommand(),
		c.themeCommand(),
		c.reportCommand(),
	)
	return root
}

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "fittrack.json"
	}
	return filepath.Join(home, ".fittrack", "state.json")
}

// start loads configuration and restores the session. The command-line
// client keeps its state in a local file unless configured otherwise.
func (c *cli) start(ctx context.Context) error {
	cfg, err := config.LoadConfig(c.configDir,
		config.WithDefault("storage.driver", config.DriverKV),
		config.WithDefault("storage.path", c.statePath),
	)
	if err != nil {
		return err
	}
	if cfg.JWT.Secret == "" {
		// Tokens are only issued by the HTTP API.
		cfg.JWT.Secret = "fittrack-cli"
	}
	c.app, err = app.New(ctx, cfg, c.opts...)
	if err != nil {
		return err
	}
	c.session, err = session.Load(ctx, c.app.Repos, c.app.Services.Auth)
	return err
}

// currentUser returns the logged-in user with a fresh profile.
func (c *cli) currentUser(ctx context.Context) (*domain.User, error) {
	return c.session.Refresh(ctx)
}

// emit prints v as JSON with --json, otherwise runs the text renderer.
func (c *cli) emit(v any, text func(w io.Writer)) error {
	if c.asJSON {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(c.out)
	return nil
}

// friendly turns the errors users can act on into short hints.
func friendly(err error) string {
	switch {
	case errors.Is(err, service.ErrNotLoggedIn):
		return "not logged in; run `fittrack login <email> <password>` first"
	case errors.Is(err, service.ErrProfileRequired):
		return "complete your profile first with `fittrack profile set`"
	case errors.Is(err, service.ErrPlanNotFound):
		return "no weekly plan yet; run `fittrack plan generate`"
	case errors.Is(err, service.ErrNotToday):
		return "you can only modify today's record"
	}
	return err.Error()
}

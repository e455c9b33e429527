// Package cli implements pivoctl, the operator surface of the admin client.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	jsonitor "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/thepivo/pivoadmin/internal/adminapi"
	"github.com/thepivo/pivoadmin/internal/common/httpclient"
	"github.com/thepivo/pivoadmin/internal/common/logtrace"
	"github.com/thepivo/pivoadmin/internal/config"
	"github.com/thepivo/pivoadmin/internal/session"
)

var json = jsonitor.ConfigCompatibleWithStandardLibrary

// Version is stamped at build time with -ldflags "-X .../internal/cli.Version=...".
var Version = "dev"

// ErrAlreadyHandled is returned by commands that have printed their own error.
var ErrAlreadyHandled = errors.New("already handled")

var (
	okLabel    = color.New(color.FgGreen).Add(color.Bold)
	errorLabel = color.New(color.FgRed).Add(color.Bold)
	warnLabel  = color.New(color.FgYellow)
)

// app carries the state of one pivoctl invocation.
type app struct {
	configFile string
	jsonOutput bool
	logLevel   string

	configPath string
	cfg        *config.Config

	out       io.Writer
	errOut    io.Writer
	transport http.RoundTripper

	store  *session.FileStore
	client *adminapi.Client
}

func newApp() *app {
	return &app{out: os.Stdout, errOut: os.Stderr}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pivoctl",
		Short: "Administer the Pivo restaurant platform",
		Long: `pivoctl manages news, restaurants, menus, reservations and staff accounts
of the Pivo restaurant platform. Sign in once with 'pivoctl login'; the session
is kept in your config directory until 'pivoctl logout'.`,
		PersistentPreRunE: a.preRunHandlePersistents,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}
	rootCmd.SetOut(a.out)
	rootCmd.SetErr(a.errOut)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&a.configFile, "config", "c", "", "config file (default is ~/.config/pivoadmin/config.yaml)")
	pf.BoolVarP(&a.jsonOutput, "json", "j", false, "Output in JSON format")
	pf.StringVar(&a.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")

	rootCmd.AddCommand(newVersionCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.AddCommand(newLoginCmd(a))
	rootCmd.AddCommand(newLogoutCmd(a))
	rootCmd.AddCommand(newWhoamiCmd(a))
	rootCmd.AddCommand(newNewsCmd(a))
	rootCmd.AddCommand(newRestaurantsCmd(a))
	rootCmd.AddCommand(newMenuCmd(a))
	rootCmd.AddCommand(newUsersCmd(a))
	rootCmd.AddCommand(newReservationsCmd(a))
	rootCmd.AddCommand(newDevServerCmd(a))
	return rootCmd
}

// Execute runs pivoctl and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	a := newApp()
	err := newRootCmd(a).ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, ErrAlreadyHandled) {
			a.printError(err)
		}
		os.Exit(1)
	}
}

func (a *app) preRunHandlePersistents(cmd *cobra.Command, args []string) error {
	file := a.configFile
	if file == "" {
		var err error
		if file, err = config.GetDefaultConfigPath(); err != nil {
			return err
		}
	}
	a.configPath = file

	cfg, err := config.Load(file)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := a.logLevel
	if level == "" {
		level = cfg.LogLevel
	}
	return logtrace.InitLoggerWithWriter(a.errOut, level)
}

// session opens the session file named by the config.
func (a *app) session() (*session.FileStore, error) {
	if a.store != nil {
		return a.store, nil
	}
	store, err := session.NewFileStore(a.cfg.SessionFile)
	if err != nil {
		return nil, err
	}
	a.store = store
	return store, nil
}

// api builds the admin client over the configured server and session.
func (a *app) api() (*adminapi.Client, error) {
	if a.client != nil {
		return a.client, nil
	}
	store, err := a.session()
	if err != nil {
		return nil, err
	}
	hc := httpclient.NewClient(a.cfg, store, httpclient.ClientOptions{
		DisableCertValidation: a.cfg.InsecureSkipVerify,
		Timeout:               a.cfg.Timeout,
		Transport:             a.transport,
	})
	a.client = adminapi.NewFromHTTPClient(hc)
	return a.client, nil
}

// requireLogin fails early when no token is stored.
func (a *app) requireLogin() (*adminapi.Client, error) {
	c, err := a.api()
	if err != nil {
		return nil, err
	}
	if !c.Auth.IsAuthenticated() {
		return nil, errors.New("not logged in, run 'pivoctl login' first")
	}
	return c, nil
}

func (a *app) printError(err error) {
	if a.jsonOutput {
		out := map[string]any{"error": err.Error()}
		if status := httpclient.StatusCode(err); status != 0 {
			out["status"] = status
		}
		a.printRaw(out)
		return
	}
	errorLabel.Fprintf(a.errOut, "Error: %v\n", err)
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of pivoctl",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.jsonOutput {
				a.printJSON(map[string]any{
					"version": Version,
					"config":  a.configPath,
				})
				return nil
			}
			fmt.Fprintf(a.out, "pivoctl %s\n", Version)
			fmt.Fprintf(a.out, "config: %s\n", a.configPath)
			return nil
		},
	}
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/thepivo/pivoadmin/internal/common"
	"github.com/thepivo/pivoadmin/internal/config"
	"github.com/thepivo/pivoadmin/internal/fakeapi"
	"github.com/thepivo/pivoadmin/internal/models"
)

const (
	generatedPasswordLength = 16
	shutdownGrace           = 5 * time.Second
)

type devServerOptions struct {
	config.DevServer
	printRoutes bool
}

// devServer is a running fake service and the admin account seeded into it.
type devServer struct {
	api      *fakeapi.Server
	admin    *models.User
	password string
}

func newDevServerCmd(a *app) *cobra.Command {
	var opts devServerOptions

	cmd := &cobra.Command{
		Use:   "dev-server",
		Short: "Run an in-memory development copy of the platform API",
		Long: `Run an in-memory implementation of the platform API for local development.
Data lives only as long as the process. An administrator account is created on
start; when no password is configured a random one is printed.`,
		Args: cobra.NoArgs,
		PreRun: func(cmd *cobra.Command, args []string) {
			// flags left unset fall back to the dev_server config section
			dev := a.cfg.DevServer
			flags := cmd.Flags()
			if !flags.Changed("listen") && dev.Listen != "" {
				opts.Listen = dev.Listen
			}
			if !flags.Changed("admin-email") && dev.AdminEmail != "" {
				opts.AdminEmail = dev.AdminEmail
			}
			if !flags.Changed("admin-password") {
				opts.AdminPassword = dev.AdminPassword
			}
			opts.AdminName = dev.AdminName
			opts.AllowedOrigins = dev.AllowedOrigins
			opts.HandlerTimeout = dev.HandlerTimeout
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := startDevServer(opts)
			if err != nil {
				return err
			}
			ln, err := net.Listen("tcp", opts.Listen)
			if err != nil {
				return fmt.Errorf("unable to listen on %s: %w", opts.Listen, err)
			}
			a.printOK("Development API listening on http://%s%s", ln.Addr(), fakeapi.APIPrefix)
			fmt.Fprintf(a.out, "  admin:    %s\n", srv.admin.Email)
			if srv.password != opts.AdminPassword {
				fmt.Fprintf(a.out, "  password: %s\n", srv.password)
			}
			return serveUntilDone(cmd.Context(), ln, srv.api)
		},
	}
	cmd.Flags().StringVar(&opts.Listen, "listen", config.DefaultDevListen, "Address to listen on")
	cmd.Flags().StringVar(&opts.AdminEmail, "admin-email", "admin@pivo.local", "Email of the seeded administrator")
	cmd.Flags().StringVar(&opts.AdminPassword, "admin-password", "", "Password of the seeded administrator (random when empty)")
	cmd.Flags().BoolVar(&opts.printRoutes, "print-routes", false, "Log every mounted route")
	return cmd
}

// startDevServer creates the fake service and seeds its administrator.
func startDevServer(opts devServerOptions) (*devServer, error) {
	api, err := fakeapi.New(fakeapi.Options{
		AllowedOrigins: opts.AllowedOrigins,
		HandlerTimeout: opts.HandlerTimeout,
		PrintRoutes:    opts.printRoutes,
	})
	if err != nil {
		return nil, err
	}
	password := opts.AdminPassword
	if password == "" {
		if password, err = common.RandomCode(generatedPasswordLength); err != nil {
			return nil, fmt.Errorf("generating admin password: %w", err)
		}
	}
	name := opts.AdminName
	if name == "" {
		name = "Administrator"
	}
	admin, err := api.AddUser(name, opts.AdminEmail, password, models.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("seeding admin account: %w", err)
	}
	return &devServer{api: api, admin: admin, password: password}, nil
}

// serveUntilDone serves h on ln until ctx is cancelled, then shuts down.
func serveUntilDone(ctx context.Context, ln net.Listener, h http.Handler) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	serverErrors := make(chan error, 1)
	go func() {
		log.Info().Str("addr", ln.Addr().String()).Msg("development api started")
		serverErrors <- srv.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("could not stop server gracefully")
		return srv.Close()
	}
	log.Info().Msg("development api stopped")
	return nil
}

package cli

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"servimarket/internal/database"
	"servimarket/internal/pkg/session"
	"servimarket/internal/server"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := bootstrap()
		if err != nil {
			return err
		}

		if cfg.MigrationsAuto {
			if err := database.RunMigrations(db, cfg.DatabaseURL); err != nil {
				return err
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		var sessions session.Revoker
		if cfg.RedisAddr != "" {
			client, err := session.NewRedisClient(cfg.RedisAddr)
			if err != nil {
				return err
			}
			defer client.Close()
			sessions = session.NewRedisRevoker(client)
			log.Printf("sessions: redis addr=%s", cfg.RedisAddr)
		} else {
			mem := session.NewMemoryRevoker()
			mem.ScheduleSweep(cfg.SessionSweep, ctx.Done())
			sessions = mem
			log.Println("sessions: in-memory")
		}

		app := server.New(cfg, db, sessions)
		go runResetCleanup(ctx, app)

		srv := &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           app.Router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			log.Printf("HTTP server listening on %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("server stopped: %v", err)
				stop()
			}
		}()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}

		log.Println("HTTP server shut down gracefully")
		return nil
	},
}

// runResetCleanup purges expired reset tokens every hour until ctx ends.
func runResetCleanup(ctx context.Context, app *server.App) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := app.Auth.CleanupExpired(ctx)
			if err != nil {
				log.Printf("reset_cleanup_failed err=%q", err.Error())
				continue
			}
			if n > 0 {
				log.Printf("reset_cleanup removed=%d", n)
			}
		}
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vaughan-dsouza/quill/internal/db"
	"github.com/vaughan-dsouza/quill/internal/handlers"
	"github.com/vaughan-dsouza/quill/internal/server"
	"github.com/vaughan-dsouza/quill/internal/session"
	"github.com/vaughan-dsouza/quill/internal/store"
	"github.com/vaughan-dsouza/quill/internal/views"
)

var port string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	serveCmd.Flags().StringVar(&port, "port", "", "Listen port (overrides PORT)")
}

func runServe() error {
	if err := requireDatabaseURL(); err != nil {
		return err
	}
	if port != "" {
		cfg.Port = port
	}
	if cfg.SecretKey == "dev" {
		log.Warn("SECRET_KEY is the development default; set it before deploying")
	}

	dbConn, err := db.Connect(cfg.DatabaseURL, db.Options{
		MaxOpen:     cfg.DBMaxOpen,
		MaxIdle:     cfg.DBMaxIdle,
		MaxLifetime: cfg.DBMaxLifetime,
	})
	if err != nil {
		return err
	}
	defer dbConn.Close()

	sessions, err := session.NewManager(cfg.SecretKey, cfg.SessionTTL, cfg.SecureCookies)
	if err != nil {
		return err
	}
	renderer, err := views.New()
	if err != nil {
		return err
	}

	st := store.New(dbConn)
	h := handlers.NewHandler(handlers.Deps{
		Users:      st.Users,
		Posts:      st.Posts,
		Pinger:     st,
		Sessions:   sessions,
		Views:      renderer,
		Log:        log,
		BcryptCost: cfg.BcryptCost,
	})

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: server.NewRouter(server.Options{
			Pool:     dbConn,
			Handler:  h,
			Users:    st.Users,
			Sessions: sessions,
			Log:      log,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errc:
		return err
	case <-quit:
	}
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	log.Info("server exited")
	return nil
}

package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	httpHdlr "localrag/handler/http"
	"localrag/src/log"
	"localrag/src/metrics"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the rag HTTP API",
	Long: `The serve command starts an HTTP server exposing document ingestion,
search and question answering over the configured collection, plus
Prometheus metrics on /metrics.`,
	Args: cobra.NoArgs,
	RunE: RunServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("port", "", "port to listen on")
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}

func RunServer(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	svc, err := newService(ctx)
	if err != nil {
		return err
	}

	metrics.Register(prometheus.DefaultRegisterer)

	// Setup gin router
	r := gin.New()
	r.Use(gin.Recovery())
	httpHdlr.NewHandler(svc, svc.Config().TopK).RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:    ":" + viper.GetString("server.port"),
		Handler: r,
	}

	// Start server in a goroutine
	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}
	log.Info("Shutting down server...")

	timeout, err := time.ParseDuration(viper.GetString("server.shutdown_timeout"))
	if err != nil {
		log.Error(err, "Invalid shutdown timeout, using default 5s")
		timeout = 5 * time.Second
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(err, "Server forced to shutdown")
		return err
	}

	log.Info("Server exited")
	return nil
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	httpAdapter "github.com/aretw0/cascade/internal/adapters/http"
	"github.com/aretw0/cascade/internal/cli"
	"github.com/aretw0/cascade/pkg/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Starts the engine in server mode, exposing the machine over a JSON API with Prometheus metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := optionsFromFlags(cmd, args)
		opts.RedisAddr, _ = cmd.Flags().GetString("redis")
		opts.Parallelism, _ = cmd.Flags().GetInt("parallelism")
		port, _ := cmd.Flags().GetString("port")

		metrics := observability.New("cascade")
		registry := prometheus.NewRegistry()
		metrics.MustRegister(registry)
		opts.Metrics = metrics

		engine, _, err := cli.LoadEngine(opts)
		if err != nil {
			fmt.Printf("Error initializing cascade: %v\n", err)
			os.Exit(1)
		}

		// Settle initial values before accepting traffic.
		engine.Tick(context.Background())

		mux := chi.NewRouter()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		mux.Mount("/", httpAdapter.NewHandler(engine))

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: mux,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Cascade Server on %s\n", srv.Addr)
			fmt.Printf("Serving machine from: %s\n", opts.FilePath)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Cascade Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("redis", "", "Redis address for snapshot persistence (host:port)")
	serveCmd.Flags().Int("parallelism", 1, "Concurrent record updates within one tick")
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/abci/server"
	"golang.org/x/net/netutil"
	"golang.org/x/sync/errgroup"

	"github.com/tendermint/auctiond/app"
	cfg "github.com/tendermint/auctiond/config"
	"github.com/tendermint/auctiond/libs/log"
)

const metricsShutdownTimeout = 5 * time.Second

// AddNodeFlags exposes some common configuration options on the command-line
// These are exposed for convenience of commands embedding an auctiond process
func AddNodeFlags(cmd *cobra.Command) {
	cmd.Flags().String("moniker", config.Moniker, "process name")
	cmd.Flags().String("db_backend", config.DBBackend, "database backend: goleveldb | memdb")
	cmd.Flags().String("db_dir", config.DBPath, "database directory")

	cmd.Flags().String("abci.laddr", config.ABCI.ListenAddress, "ABCI server listen address")
	cmd.Flags().String("abci.transport", config.ABCI.Transport, "ABCI transport: socket | grpc")

	cmd.Flags().Bool("instrumentation.prometheus", config.Instrumentation.Prometheus, "serve Prometheus metrics")
	cmd.Flags().String("instrumentation.prometheus_listen_addr", config.Instrumentation.PrometheusListenAddr,
		"Prometheus metrics listen address")
}

// NewRunNodeCmd returns the command that serves the application to a
// consensus engine until interrupted.
func NewRunNodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "start",
		Aliases: []string{"node", "run"},
		Short:   "Run the auction ABCI application",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return runNode(ctx, config, logger, cfg.DefaultDBProvider)
		},
	}
	AddNodeFlags(cmd)
	return cmd
}

// runNode serves the ABCI application, and the metrics endpoint when
// enabled, until ctx is done or one of them fails.
func runNode(ctx context.Context, conf *cfg.Config, logger log.Logger, dbProvider cfg.DBProvider) error {
	db, err := dbProvider(cfg.AppDBName, conf)
	if err != nil {
		return err
	}
	defer db.Close()

	metrics := app.NopMetrics()
	var metricsListener net.Listener
	if conf.Instrumentation.Prometheus {
		metricsListener, err = listenMetrics(conf.Instrumentation)
		if err != nil {
			return err
		}
		defer metricsListener.Close()
		metrics = app.PrometheusMetrics(conf.Instrumentation.Namespace, "moniker", conf.Moniker)
	}

	application, err := app.NewApplication(db,
		app.WithLogger(logger.With("module", "app")),
		app.WithMetrics(metrics),
	)
	if err != nil {
		return err
	}
	last := application.LastState()

	srv, err := server.NewServer(conf.ABCI.ListenAddress, conf.ABCI.Transport, application)
	if err != nil {
		return fmt.Errorf("failed to create ABCI server: %w", err)
	}
	srv.SetLogger(log.ServiceLogger(logger.With("module", "abci-server")))
	if err := srv.Start(); err != nil {
		return fmt.Errorf("failed to start ABCI server: %w", err)
	}
	logger.Info("started ABCI server",
		"laddr", conf.ABCI.ListenAddress,
		"transport", conf.ABCI.Transport,
		"height", last.Height,
		"app_hash", last.AppHash)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("stopping ABCI server")
		return srv.Stop()
	})

	if metricsListener != nil {
		metricsServer := &http.Server{
			Handler:           promhttp.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		g.Go(func() error {
			logger.Info("serving metrics", "laddr", metricsListener.Addr())
			if err := metricsServer.Serve(metricsListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			sctx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
			defer cancel()
			return metricsServer.Shutdown(sctx)
		})
	}

	return g.Wait()
}

// listenMetrics opens the Prometheus listener, capped at
// max_open_connections when set.
func listenMetrics(conf *cfg.InstrumentationConfig) (net.Listener, error) {
	ln, err := net.Listen("tcp", conf.PrometheusListenAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen for metrics on %s: %w", conf.PrometheusListenAddr, err)
	}
	if conf.MaxOpenConnections > 0 {
		ln = netutil.LimitListener(ln, conf.MaxOpenConnections)
	}
	return ln, nil
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/AtDexters-Lab/nexus-peer-client/internal/client"
	"github.com/AtDexters-Lab/nexus-peer-client/internal/config"
	"github.com/AtDexters-Lab/nexus-peer-client/internal/metrics"
)

// options are the flags shared by every subcommand.
type options struct {
	configPath string
	server     string
	clientID   string
	peerID     string
}

func main() {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "peer-client",
		Short: "Keep a peer session open with a coordinating server",
		Long: `peer-client holds one connection to a coordinating server and exchanges
fixed-layout control and label frames with it.

Control frames manage the session identity (/change_id, /change_peer,
/peer_lost, /end_connection). Label frames carry application text to the
current peer, or to everybody while the peer is "broadcast".`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to a YAML or TOML configuration file.")
	flags.StringVar(&opts.server, "server", "", "Override the server address from the configuration.")
	flags.StringVar(&opts.clientID, "id", "", "Client id announced after connecting.")
	flags.StringVar(&opts.peerID, "peer", "", "Peer id announced after the client id.")

	rootCmd.AddCommand(runCmd(opts), chatCmd(opts))

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

func loadConfig(opts *options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.LoadConfig(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if opts.server != "" {
		cfg.ServerAddress = opts.server
	}
	if opts.clientID != "" {
		cfg.ClientID = opts.clientID
	}
	if opts.peerID != "" {
		cfg.PeerID = opts.peerID
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	log.SetLevel(level)
	return cfg, nil
}

type session struct {
	ctx    context.Context
	cancel context.CancelFunc
	client *client.Client
	cfg    *config.Config
}

// close disconnects the client and releases the signal handler.
func (s *session) close() {
	log.Info("Initiating shutdown...")
	s.client.Disconnect()
	s.cancel()
	log.Info("Shutdown complete. Goodbye.")
}

// openSession loads the configuration, builds the client and connects it. The
// session context is cancelled on SIGINT/SIGTERM.
func openSession(opts *options) (*session, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	var clientOpts []client.Option
	if cfg.MetricsListenAddress != "" {
		reg := prometheus.NewRegistry()
		clientOpts = append(clientOpts, client.WithMetrics(metrics.New(reg)))
		serveMetrics(cfg.MetricsListenAddress, reg)
	}

	c, err := client.New(cfg, clientOpts...)
	if err != nil {
		return nil, err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	log.WithField("addr", cfg.ServerAddress).Infof("Connecting over %s", cfg.Transport)
	if err := c.Connect(ctx, cfg.ClientID, cfg.PeerID); err != nil {
		cancel()
		return nil, err
	}
	log.Info("Peer client is running. Press CTRL+C to exit.")
	return &session{ctx: ctx, cancel: cancel, client: c, cfg: cfg}, nil
}

func serveMetrics(addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	go func() {
		log.Infof("Metrics listening on %s", addr)
		if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("Metrics listener stopped")
		}
	}()
}

func init() {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
}

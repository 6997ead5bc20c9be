package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/holiman/uint256"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"pipnet/pkg/chain"
	"pipnet/pkg/chainstore"
	"pipnet/pkg/config"
	"pipnet/pkg/oracle"
	"pipnet/pkg/peer"
	"pipnet/pkg/pip"
	"pipnet/pkg/session"
	"pipnet/pkg/wire"
)

func main() {
	rootCmd := &cobra.Command{Use: "pipnode"}
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(headersCmd())
	rootCmd.AddCommand(batchCmd())
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	if lvl, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		logger.SetLevel(lvl)
	}
	return logger
}

func loadSessionConfig() (*config.Config, error) {
	env := os.Getenv("PIPNODE_ENV")
	return config.Load(env)
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "run a provider answering inbound request batches",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSessionConfig()
			if err != nil {
				return fmt.Errorf("pipnode: load config: %w", err)
			}
			logger := newLogger(cfg)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			transport, err := peer.NewLibP2PTransport(ctx, cfg.Network.ListenAddr)
			if err != nil {
				return fmt.Errorf("pipnode: start transport: %w", err)
			}
			defer transport.Close()

			for _, addr := range cfg.Network.BootstrapPeers {
				if err := transport.Connect(addr); err != nil {
					logger.WithError(err).WithField("addr", addr).Warn("pipnode: bootstrap peer unreachable")
				}
			}

			rep, err := peer.NewReputationTable(cfg.Reputation.CacheSize)
			if err != nil {
				return fmt.Errorf("pipnode: reputation table: %w", err)
			}

			store, err := chainstore.New(cfg.Reputation.CacheSize)
			if err != nil {
				return fmt.Errorf("pipnode: chain store: %w", err)
			}
			seedFixture(store)

			sess := session.New(logger, session.Config{
				CreditMax:        cfg.Credit.Max,
				CreditRefillRate: cfg.Credit.RefillRate,
				CostPerRequest:   cfg.Credit.CostPerRequest,
			}, transport, &oracle.Adapter{Chain: store}, rep)

			sess.Start()
			defer sess.Stop()

			logger.WithField("listen", cfg.Network.ListenAddr).Info("pipnode: serving")

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh
			return nil
		},
	}
	return cmd
}

func headersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "headers [peer-id] [start-number]",
		Short: "query a peer for a run of headers starting at a block number",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSessionConfig()
			if err != nil {
				return fmt.Errorf("pipnode: load config: %w", err)
			}
			logger := newLogger(cfg)

			var start uint64
			if _, err := fmt.Sscanf(args[1], "%d", &start); err != nil {
				return fmt.Errorf("pipnode: invalid start number %q: %w", args[1], err)
			}
			max, _ := cmd.Flags().GetUint64("max")

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			transport, err := peer.NewLibP2PTransport(ctx, cfg.Network.ListenAddr)
			if err != nil {
				return fmt.Errorf("pipnode: start transport: %w", err)
			}
			defer transport.Close()

			if err := transport.Connect(args[0]); err != nil {
				return fmt.Errorf("pipnode: connect to peer: %w", err)
			}

			rep, err := peer.NewReputationTable(cfg.Reputation.CacheSize)
			if err != nil {
				return fmt.Errorf("pipnode: reputation table: %w", err)
			}

			sess := session.New(logger, session.Config{
				CreditMax:        cfg.Credit.Max,
				CreditRefillRate: cfg.Credit.RefillRate,
				CostPerRequest:   cfg.Credit.CostPerRequest,
			}, transport, nil, rep)

			batch := pip.NewBuilder()
			req := &pip.HeadersRequest{
				Start: pip.Scalar(wire.FromNumber(start)),
				Skip:  0,
				Max:   max,
			}
			if err := batch.Append(req); err != nil {
				return fmt.Errorf("pipnode: build batch: %w", err)
			}

			queryCtx, queryCancel := context.WithCancel(ctx)
			defer queryCancel()
			pairs, err := sess.Query(queryCtx, args[0], batch)
			if err != nil {
				return fmt.Errorf("pipnode: query: %w", err)
			}
			for _, p := range pairs {
				resp, ok := p.Response.(*pip.HeadersResponse)
				if !ok {
					continue
				}
				fmt.Printf("received %d headers\n", len(resp.Headers))
			}
			return nil
		},
	}
	cmd.Flags().Uint64("max", 1, "maximum number of headers to request")
	return cmd
}

// seedFixture populates the store with a single genesis-like header so a
// freshly started provider has at least one answerable block.
func seedFixture(store *chainstore.Store) {
	genesis := chain.Header{Number: 0, GasLimit: 8_000_000, Difficulty: uint256.NewInt(0)}
	raw, err := wire.Encode(genesis)
	if err != nil {
		return
	}
	encoded, err := chain.NewEncodedHeader(raw)
	if err != nil {
		return
	}
	_ = store.PutHeader(encoded, uint256.NewInt(0))
}

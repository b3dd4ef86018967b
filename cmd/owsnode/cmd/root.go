package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mdwlog "github.com/msto63/owsh/foundation/core/log"
	"github.com/msto63/owsh/internal/ows/node"
	"github.com/msto63/owsh/internal/ows/rpc"
	"github.com/msto63/owsh/pkg/core/config"
	coreGrpc "github.com/msto63/owsh/pkg/core/grpc"
	"github.com/msto63/owsh/pkg/core/logging"
	"github.com/msto63/owsh/pkg/core/version"
)

var (
	cfgFile   string
	verbose   bool
	listen    string
	domain    string
	name      string
	master    bool
	plannings []string
)

var rootCmd = &cobra.Command{
	Use:   "owsnode",
	Short: "owsnode - in-memory Open Workload Scheduler node",
	Long: `owsnode serves the ows.Scheduler gRPC service from memory. It is
meant for trying out owsh and for integration tests; nothing is persisted.

Examples:
  owsnode --domain prod --name node1 --master
  owsnode --listen :9000 --domain prod --name node2 --planning night`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runNode,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $OWSH_CONFIG, ./owsh.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address (default from [node] listen)")
	rootCmd.Flags().StringVarP(&domain, "domain", "d", "", "domain of the node, also its first planning")
	rootCmd.Flags().StringVarP(&name, "name", "n", "", "name of the node (default: hostname)")
	rootCmd.Flags().BoolVar(&master, "master", false, "announce the node as master")
	rootCmd.Flags().StringSliceVar(&plannings, "planning", nil, "additional planning names")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Get("owsnode").String())
	},
}

func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, err
	}

	if listen != "" {
		cfg.Node.Listen = listen
	}
	if domain != "" {
		cfg.Node.Domain = domain
	}
	if name != "" {
		cfg.Node.Name = name
	}
	if master {
		cfg.Node.Master = true
	}
	if cfg.Node.Name == "" {
		if host, err := os.Hostname(); err == nil {
			cfg.Node.Name = host
		}
	}
	if verbose {
		cfg.Logging.Level = "debug"
	} else if cfg.Logging.Level == "warn" {
		cfg.Logging.Level = "info"
	}
	return cfg, nil
}

func runNode(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	lc := logging.DefaultLoggerConfig("owsnode")
	lc.Level = cfg.Logging.Level
	lc.Format = cfg.Logging.Format
	lc.Output = cfg.Logging.Output
	logger, closer, err := logging.NewLogger(lc)
	if err != nil {
		return err
	}
	defer closer.Close()
	mdwlog.SetDefault(logger)
	coreGrpc.SetLogger(logger)

	svc, err := node.NewService(node.Config{
		Domain: cfg.Node.Domain,
		Name:   cfg.Node.Name,
		Master: cfg.Node.Master,
		Logger: logger,
	})
	if err != nil {
		return err
	}
	for _, p := range plannings {
		svc.AddPlanning(p)
	}

	serverCfg := coreGrpc.DefaultServerConfig()
	serverCfg.Address = cfg.Node.Listen
	server := coreGrpc.NewServer(serverCfg)
	rpc.RegisterSchedulerServer(server.GRPCServer(), svc)
	server.SetServing(rpc.ServiceName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("node serving", mdwlog.Fields{
		"address": cfg.Node.Listen,
		"domain":  cfg.Node.Domain,
		"name":    cfg.Node.Name,
		"master":  cfg.Node.Master,
	})

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	server.StopWithTimeout(shutdownCtx)
	return nil
}

package cmd

import (
	"io"
	"os"

	"golang.org/x/term"

	mdwlog "github.com/msto63/owsh/foundation/core/log"
	"github.com/msto63/owsh/foundation/shell"
	"github.com/msto63/owsh/internal/ows/commands"
	"github.com/msto63/owsh/internal/ows/printing"
	"github.com/msto63/owsh/internal/ows/rpc"
	"github.com/msto63/owsh/pkg/core/config"
	coreGrpc "github.com/msto63/owsh/pkg/core/grpc"
	"github.com/msto63/owsh/pkg/core/logging"
)

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
	if outputFormat != "" {
		cfg.Output.Format = outputFormat
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// setupLogging builds the process logger and installs it as default for
// the shell and the gRPC interceptors
func setupLogging(cfg *config.Config, component string) (*mdwlog.Logger, io.Closer, error) {
	lc := logging.DefaultLoggerConfig(component)
	lc.Level = cfg.Logging.Level
	lc.Format = cfg.Logging.Format
	lc.Output = cfg.Logging.Output

	logger, closer, err := logging.NewLogger(lc)
	if err != nil {
		return nil, nil, err
	}
	mdwlog.SetDefault(logger)
	coreGrpc.SetLogger(logger)
	return logger, closer, nil
}

// terminalWidth returns the width of stdout, or 0 when it is not a terminal
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return width
}

type shellSetup struct {
	engine *shell.Engine
	client *rpc.Client
	cmds   *commands.Commands
}

func (s *shellSetup) Close() {
	s.client.Close()
	s.engine.Close()
}

// newShell builds an engine with the OWS commands registered
func newShell(cfg *config.Config, logger *mdwlog.Logger) (*shellSetup, error) {
	format, err := printing.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}

	engine := shell.New(shell.Options{
		Logger:          logger,
		Hostname:        cfg.Shell.Hostname,
		Banner:          cfg.Shell.Banner,
		HistorySize:     cfg.Shell.HistorySize,
		EnablePassword:  cfg.Shell.EnablePassword,
		IdleTimeout:     cfg.Shell.IdleTimeout.Duration,
		RegularInterval: cfg.Shell.RegularInterval.Duration,
	})

	client := rpc.NewClient(rpc.Options{
		Logger:      logger,
		DialTimeout: cfg.Connection.DialTimeout.Duration,
		Caller:      cfg.Connection.CallingNode,
	})

	cmds := commands.New(commands.Options{
		Client:      client,
		Renderer:    printing.New(format, terminalWidth()),
		Logger:      logger,
		DefaultPort: cfg.Connection.DefaultPort,
		CallingNode: cfg.Connection.CallingNode,
	})
	if err := cmds.Register(engine); err != nil {
		engine.Close()
		return nil, err
	}

	return &shellSetup{engine: engine, client: client, cmds: cmds}, nil
}

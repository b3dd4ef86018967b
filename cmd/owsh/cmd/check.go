package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/owsh/internal/ows/model"
	"github.com/msto63/owsh/internal/ows/monitoring"
	"github.com/msto63/owsh/internal/ows/rpc"
)

var (
	checkHost     string
	checkPort     int
	checkWarning  int64
	checkCritical int64
	checkMetric   string
	checkDomain   string
)

var checkCmd = &cobra.Command{
	Use:   "check -H <hostname> -p <port> -w <warning> -c <critical> -m <metric>",
	Short: "Monitoring check of a node counter",
	Long: `Reads a counter from a node and compares it with the thresholds.

Metrics:
  failed_jobs   number of failed jobs of the planning
  waiting_jobs  number of waiting jobs of the planning

Prints one status line and exits with 0 (OK), 1 (WARNING), 2 (CRITICAL)
or 3 (UNKNOWN).`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVarP(&checkHost, "host", "H", "", "the node to check")
	checkCmd.Flags().IntVarP(&checkPort, "port", "p", -1, "the port to use")
	checkCmd.Flags().Int64VarP(&checkWarning, "warning", "w", -1, "the warning threshold")
	checkCmd.Flags().Int64VarP(&checkCritical, "critical", "c", -1, "the critical threshold")
	checkCmd.Flags().StringVarP(&checkMetric, "metric", "m", "", "the value to check (failed_jobs, waiting_jobs)")
	checkCmd.Flags().StringVarP(&checkDomain, "domain", "d", "", "the planning to check (default: the node's current one)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	unknown := &exitError{code: monitoring.StatusUnknown.ExitCode()}

	thresholds := monitoring.Thresholds{Warning: checkWarning, Critical: checkCritical}
	if checkHost == "" || checkPort < 0 || checkMetric == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "Missing args!")
		cmd.Usage()
		return unknown
	}
	if err := thresholds.Validate(); err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), err.Error())
		cmd.Usage()
		return unknown
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, closer, err := setupLogging(cfg, "owsh-check")
	if err != nil {
		return err
	}
	defer closer.Close()

	client := rpc.NewClient(rpc.Options{
		Logger:      logger,
		DialTimeout: cfg.Connection.DialTimeout.Duration,
		Caller:      "monitoring",
	})
	defer client.Close()

	ctx := context.Background()
	if err := client.Open(ctx, checkHost, checkPort); err != nil {
		logger.WarnWithErr("check: connection failed", err)
	}

	routing := model.Routing{
		Calling: model.Endpoint{Domain: checkDomain, Name: "monitoring"},
		Target:  model.Endpoint{Domain: checkDomain},
	}
	result := monitoring.Check(ctx, client.Handler(), routing, monitoring.Metric(checkMetric), thresholds)
	fmt.Fprintln(cmd.OutOrStdout(), result.String())

	if code := result.Status.ExitCode(); code != 0 {
		return &exitError{code: code}
	}
	return nil
}

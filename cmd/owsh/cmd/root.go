package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile      string
	verbose      bool
	outputFormat string
	batchFile    string
)

var rootCmd = &cobra.Command{
	Use:   "owsh [<domain> <hostname> [port]] | -",
	Short: "owsh - Open Workload Scheduler shell",
	Long: `owsh is a command shell for Open Workload Scheduler nodes.

Without arguments an interactive shell is started. With a domain and a
hostname the shell connects to that node first. With "-" (or --batch)
commands are read from stdin (or the given file) and executed without
prompting.

Examples:
  owsh                          # interactive, disconnected
  owsh prod node1 8080          # interactive, connected to node1
  owsh - < commands.txt         # batch from stdin
  owsh --batch commands.txt prod node1`,
	Args:          validateShellArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runShell,
}

// exitError carries a process exit code through cobra
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// Execute runs the root command
func Execute() error {
	err := rootCmd.Execute()
	var ee *exitError
	if err != nil && !errors.As(err, &ee) {
		printError("owsh", err)
	}
	return err
}

// ExitCode maps the result of Execute to a process exit code
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $OWSH_CONFIG, ./owsh.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format: plain or json")
	rootCmd.Flags().StringVarP(&batchFile, "batch", "b", "", "read commands from file")
}

func validateShellArgs(cmd *cobra.Command, args []string) error {
	switch len(args) {
	case 0, 2, 3:
		return nil
	case 1:
		if args[0] == "-" {
			return nil
		}
	}
	return fmt.Errorf("expected \"-\" or <domain> <hostname> [port], got %d args", len(args))
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
}

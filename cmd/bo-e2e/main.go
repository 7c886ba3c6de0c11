package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/backoffice-qa/backoffice-e2e/internal/config"
	"github.com/backoffice-qa/backoffice-e2e/internal/logging"
	"github.com/backoffice-qa/backoffice-e2e/internal/textrepo"
	"github.com/backoffice-qa/backoffice-e2e/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "bo-e2e",
	Short: "Back-office end-to-end suite runner",
	Long: `bo-e2e runs the back-office UI suite and manages its test data.

Settings come from bo-e2e.yaml, .env and the environment; flags of the
run command override them for a single run.`,
	Version:       version.String(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

var configPathFlag string

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		if versionOutputFlag == "yaml" {
			return yaml.NewEncoder(cmd.OutOrStdout()).Encode(version.GetInfo())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "bo-e2e %s\n", version.Full())
		return nil
	},
}

var versionOutputFlag string

var messagesCmd = &cobra.Command{
	Use:   "messages [\"Section Key\"]",
	Short: "Print an expected UI message, or list all message keys",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runMessages,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPathFlag, "config", os.Getenv("BO_E2E_CONFIG"), "Config file or directory holding bo-e2e.yaml")
	versionCmd.Flags().StringVarP(&versionOutputFlag, "output", "o", "text", "Output format: text or yaml")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(messagesCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(sweepCmd)
}

// loadConfig reads the configuration selected by --config.
func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPathFlag)
	if err != nil {
		return nil, nil, err
	}
	log, err := logging.FromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func runMessages(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPathFlag)
	if err != nil {
		return err
	}
	repo, err := textrepo.Load(cfg.Path(cfg.Messages.File))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(args) == 0 {
		for _, k := range repo.Keys() {
			fmt.Fprintln(out, k)
		}
		return nil
	}
	msg, err := repo.Get(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(out, msg.String())
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

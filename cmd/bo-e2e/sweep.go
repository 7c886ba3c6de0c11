package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/backoffice-qa/backoffice-e2e/internal/api"
	"github.com/backoffice-qa/backoffice-e2e/internal/sweeper"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete fixtures left behind by interrupted runs",
	Long: `Sweep looks up geozones, products and users carrying the fixture
prefix in the back-office database and deletes them through the admin API.`,
	Args: cobra.NoArgs,
	RunE: runSweep,
}

var sweepDryRun bool

func init() {
	sweepCmd.Flags().BoolVar(&sweepDryRun, "dry-run", false, "Only list leaked fixtures")
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := cmd.Context()
	db, err := sweeper.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	var deleter sweeper.Deleter
	if !sweepDryRun {
		client, err := api.FromConfig(ctx, cfg, log)
		if err != nil {
			return err
		}
		deleter = client
	}

	res, err := sweeper.New(db, cfg.Database.TablePrefix, log).Sweep(ctx, deleter, sweepDryRun)
	if res != nil {
		printSweep(cmd.OutOrStdout(), res, sweepDryRun)
	}
	return err
}

func printSweep(w io.Writer, res *sweeper.Result, dryRun bool) {
	for _, e := range res.Found {
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.EntityType(), e.EntityID(), e)
	}
	if dryRun {
		fmt.Fprintf(w, "found %d leaked fixture(s)\n", len(res.Found))
		return
	}
	fmt.Fprintf(w, "deleted %d of %d leaked fixture(s)\n", len(res.Deleted), len(res.Found))
}

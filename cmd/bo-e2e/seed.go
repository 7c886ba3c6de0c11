package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/backoffice-qa/backoffice-e2e/internal/api"
	"github.com/backoffice-qa/backoffice-e2e/internal/config"
	"github.com/backoffice-qa/backoffice-e2e/internal/fixtures"
	"github.com/backoffice-qa/backoffice-e2e/internal/models"
)

var seedCmd = &cobra.Command{
	Use:       "seed <geozone|product|user>",
	Short:     "Create a fixture entity through the admin API",
	Long:      "Seed creates one generated entity and prints its ID. Seeded entities carry the fixture prefix, so sweep removes them.",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{string(models.EntityTypeGeozone), string(models.EntityTypeProduct), string(models.EntityTypeUser)},
	RunE:      runSeed,
}

// seedEntity builds the entity of the given type from the fixture data.
func seedEntity(kind string, data *fixtures.Data) (models.Entity, error) {
	switch models.EntityType(kind) {
	case models.EntityTypeGeozone:
		return models.NewGeozone(data.Geozones.Countries...), nil
	case models.EntityTypeProduct:
		return models.NewProduct(data.ImagePaths()...), nil
	case models.EntityTypeUser:
		return models.NewAdminUser(), nil
	}
	return nil, fmt.Errorf("unknown entity type %q", kind)
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer log.Sync()

	data, err := loadFixtures(cfg)
	if err != nil {
		return err
	}
	e, err := seedEntity(args[0], data)
	if err != nil {
		return err
	}

	client, err := api.FromConfig(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	if err := client.Create(cmd.Context(), e); err != nil {
		return err
	}
	log.Info("Seeded entity", zap.String("type", args[0]), zap.String("id", e.EntityID()))
	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", e.EntityType(), e.EntityID(), e)
	return nil
}

func loadFixtures(cfg *config.Config) (*fixtures.Data, error) {
	return fixtures.Load(cfg.Path(cfg.Fixtures.File), cfg.Path(cfg.Fixtures.ImagesDir))
}

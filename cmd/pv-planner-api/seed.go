package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"sigs.k8s.io/yaml"

	"github.com/solarwerk/pv-planner/internal/bom"
	"github.com/solarwerk/pv-planner/internal/config"
	"github.com/solarwerk/pv-planner/internal/service/mappers"
	"github.com/solarwerk/pv-planner/internal/store"
)

var (
	seedCatalogFile  string
	seedDefaultsFile string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a material catalog and the defaults record into the db",
	Long:  "Load a material catalog and the defaults record into the db. Materials and defaults that already exist are left untouched.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if seedCatalogFile == "" && seedDefaultsFile == "" {
			return fmt.Errorf("at least one of --catalog or --defaults is required")
		}

		cfg, err := config.New()
		if err != nil {
			zap.S().Fatalw("reading configuration", "error", err)
		}

		undo := setupLogger(cfg)
		defer undo()

		var materials []bom.Material
		if seedCatalogFile != "" {
			if err := readYAML(seedCatalogFile, &materials); err != nil {
				return err
			}
		}

		var defaults map[string]any
		if seedDefaultsFile != "" {
			defaults = map[string]any{}
			if err := readYAML(seedDefaultsFile, &defaults); err != nil {
				return err
			}
		}

		db, err := store.InitDB(cfg)
		if err != nil {
			zap.S().Fatalw("initializing data store", "error", err)
		}

		s := store.NewStore(db)
		defer s.Close()

		if err := s.Seed(cmd.Context(), mappers.MaterialsToModel(materials), defaults); err != nil {
			return fmt.Errorf("seeding: %w", err)
		}
		zap.S().Infow("db seeded", "materials", len(materials), "defaults", defaults != nil)

		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedCatalogFile, "catalog", "", "Path to the material catalog (yaml or json)")
	seedCmd.Flags().StringVar(&seedDefaultsFile, "defaults", "", "Path to the flat defaults record (yaml or json)")
}

func readYAML(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

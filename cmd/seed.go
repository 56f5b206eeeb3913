package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amrops/fleetconsole/app"
	"github.com/amrops/fleetconsole/config"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate a fresh fleet aggregate and persist it",
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	if err := svc.Seed(context.Background()); err != nil {
		return fmt.Errorf("seed fleet: %w", err)
	}
	fmt.Println("fleet aggregate seeded")
	return nil
}

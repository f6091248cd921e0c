package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/oatsaysai/letters-to-kopi/internal/config"
	"github.com/oatsaysai/letters-to-kopi/internal/db"
	"github.com/oatsaysai/letters-to-kopi/internal/store"
)

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase stored letters and menu so the defaults are seeded again",
	RunE:  runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "skip the confirmation prompt")
}

func runReset(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(config.New(), configFile)
	if err != nil {
		return err
	}

	if !resetYes {
		fmt.Fprintf(cmd.OutOrStdout(), "This erases every letter and menu item in %s storage. Continue? [y/N] ", cfg.Storage.Driver)
		var answer string
		fmt.Fscanln(cmd.InOrStdin(), &answer)
		if answer != "y" && answer != "Y" {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return nil
		}
	}

	ctx := context.Background()
	kv, err := db.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Driver, err)
	}
	defer kv.Close()

	if err := store.New(kv).Reset(ctx); err != nil {
		return err
	}
	log.Println("Storage reset; defaults will be seeded on next start")
	return nil
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "kopi",
		Short: "Letters to Kopi - a private letter wall behind a coffee menu",
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to configuration file (default config.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(resetCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

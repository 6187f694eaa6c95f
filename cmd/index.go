package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piyushimraw/meeseeks-cli/kbse/config"
	"github.com/piyushimraw/meeseeks-cli/kbse/kbse"
	"github.com/piyushimraw/meeseeks-cli/kbse/types"
)

var indexCmd = &cobra.Command{
	Use:   "index [kb-id]",
	Short: "Build or rebuild a knowledge base's search index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		svc := kbse.NewService(cfg.KBRoot)

		progress := func(p types.IndexProgress) {
			fmt.Printf("%s: %d/%d\n", p.Phase, p.Current, p.Total)
		}

		result := svc.IndexKB(context.Background(), args[0], progress)
		if !result.Success {
			return fmt.Errorf("indexing failed: %s", result.Error)
		}

		fmt.Printf("Indexed %d chunks (mode: %s)\n", result.ChunkCount, result.Mode)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

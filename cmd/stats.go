package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piyushimraw/meeseeks-cli/kbse/config"
	"github.com/piyushimraw/meeseeks-cli/kbse/kbse"
)

var statsCmd = &cobra.Command{
	Use:   "stats [kb-id]",
	Short: "Show a knowledge base's index status",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		svc := kbse.NewService(cfg.KBRoot)
		stats := svc.IndexStats(args[0])

		if !stats.Indexed {
			fmt.Println("not indexed")
			return nil
		}

		fmt.Printf("indexed: %d chunks, mode=%s", stats.ChunkCount, stats.Mode)
		if stats.IndexedAt != nil {
			fmt.Printf(", indexedAt=%s", stats.IndexedAt.Format("2006-01-02T15:04:05Z07:00"))
		}
		fmt.Println()
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear [kb-id]",
	Short: "Remove a knowledge base's index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		svc := kbse.NewService(cfg.KBRoot)
		if err := svc.ClearIndex(args[0]); err != nil {
			return fmt.Errorf("failed to clear index: %w", err)
		}
		fmt.Println("cleared")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(clearCmd)
}

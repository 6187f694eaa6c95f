package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/piyushimraw/meeseeks-cli/kbse/config"
	"github.com/piyushimraw/meeseeks-cli/kbse/kbse"
	"github.com/piyushimraw/meeseeks-cli/kbse/query"
)

var (
	topK       int
	jsonOutput bool
)

var searchCmd = &cobra.Command{
	Use:   "search [kb-id] [query]",
	Short: "Search an indexed knowledge base",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		svc := kbse.NewService(cfg.KBRoot)
		results := svc.SearchKB(context.Background(), args[0], args[1], topK)

		if jsonOutput {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(results)
		}

		if len(results) == 0 {
			fmt.Println("No results found.")
			return nil
		}
		fmt.Println(query.FormatMarkdown(results))
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVarP(&topK, "top", "k", 5, "Number of results to return")
	searchCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")

	rootCmd.AddCommand(searchCmd)
}

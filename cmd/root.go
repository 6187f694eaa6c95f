package cmd

import (
	"github.com/spf13/cobra"
)

var (
	configFile string
	rootCmd    = &cobra.Command{
		Use:   "kbse",
		Short: "Knowledge-base search engine - offline semantic search over crawled pages",
		Long: `kbse chunks crawled web pages, embeds them (TF-IDF or an optional
transformer backend), and answers top-K semantic queries by cosine
similarity, entirely offline.`,
	}
)

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: first found of ./kbse.yaml, ./.kbse.yaml, $HOME/.config/kbse/config.yaml, $HOME/.meeseeks/config.yaml)")
}

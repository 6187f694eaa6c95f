package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/piyushimraw/meeseeks-cli/kbse/config"
	"github.com/piyushimraw/meeseeks-cli/kbse/kbse"
	"github.com/piyushimraw/meeseeks-cli/kbse/mcp"
)

var serveMCPCmd = &cobra.Command{
	Use:   "serve-mcp",
	Short: "Run the MCP stdio server",
	Long:  `Expose index_kb, search_kb, and the other facade operations as MCP tools over stdio.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		svc := kbse.NewService(cfg.KBRoot)
		server := mcp.NewServer(svc, cfg.MCP.ServerName)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveMCPCmd)
}

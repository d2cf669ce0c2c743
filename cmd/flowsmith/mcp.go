package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	mcpAdapter "github.com/flowsmith/flowsmith/pkg/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts Flowsmith as an MCP Server over stdio.
This allows AI agents (like Claude Desktop) to edit workflows as tools:
submit_instruction, get_workflow and render_graph.`,
	Run: func(cmd *cobra.Command, args []string) {
		logger := newLogger(cmd)

		arch, err := newArchitect(cmd, logger)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		mgr, err := newSessionManager(cmd, logger)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		srv := mcpAdapter.NewServer(arch, mgr)

		// Ensure logs don't corrupt JSON-RPC on Stdout
		log.SetOutput(os.Stderr)
		logger.Info("starting flowsmith MCP server (stdio)")
		if err := srv.ServeStdio(); err != nil {
			logger.Error("MCP server execution failed", "err", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flowsmith/flowsmith/internal/presentation/graph"
	"github.com/flowsmith/flowsmith/pkg/workflow"
)

var graphCmd = &cobra.Command{
	Use:   "graph <file>",
	Short: "Render a workflow document as a graph",
	Long:  `Loads a workflow document from a JSON or YAML file and prints it as a Mermaid flowchart or Graphviz DOT.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		format, _ := cmd.Flags().GetString("format")

		out, err := runGraph(args[0], format)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(out)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("format", "f", "mermaid", "Output format: mermaid or dot")
}

func runGraph(path, format string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	raw, err := parseDocument(path, data)
	if err != nil {
		return "", err
	}
	wf, _, err := workflow.DecodeStrictMap(raw)
	if err != nil {
		return "", err
	}

	switch format {
	case "mermaid":
		return graph.GenerateMermaid(wf), nil
	case "dot":
		return graph.GenerateDOT(wf), nil
	default:
		return "", fmt.Errorf("unknown format %q, expected mermaid or dot", format)
	}
}

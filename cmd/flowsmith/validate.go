package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/flowsmith/flowsmith/pkg/workflow"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a workflow document for consistency",
	Long: `Loads a workflow document from a JSON or YAML file and reports every
rule violation: missing fields, duplicate ids, dangling references and
empty branch targets.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(args[0]); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Workflow is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	raw, err := parseDocument(path, data)
	if err != nil {
		return err
	}

	wf, res, err := workflow.DecodeStrictMap(raw)
	if err != nil {
		return err
	}

	structural := workflow.Validate(wf)
	res.Violations = append(res.Violations, structural.Violations...)
	if !res.Valid() {
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("%d violation(s):", len(res.Violations)))
		for _, v := range res.Violations {
			sb.WriteString("\n  - ")
			sb.WriteString(v.String())
		}
		return fmt.Errorf("%s", sb.String())
	}
	return nil
}

func parseDocument(path string, data []byte) (map[string]any, error) {
	var raw map[string]any
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	}
	return raw, nil
}

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flowsmith/flowsmith/internal/presentation/graph"
	"github.com/flowsmith/flowsmith/internal/presentation/tui"
	"github.com/flowsmith/flowsmith/pkg/session"
	"github.com/flowsmith/flowsmith/pkg/workflow"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive workflow editing session",
	Long: `Opens a REPL where each line is an instruction against the current
workflow. Type /show to print the document, /graph for a Mermaid diagram,
and /quit to exit.`,
	Run: func(cmd *cobra.Command, args []string) {
		logger := newLogger(cmd)
		arch, err := newArchitect(cmd, logger)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		sessionID, _ := cmd.Flags().GetString("session")
		mgr, err := newSessionManager(cmd, logger)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		sess, err := mgr.LoadOrStart(cmd.Context(), sessionID)
		if err != nil {
			fmt.Printf("Failed to open session: %v\n", err)
			os.Exit(1)
		}

		render := tui.NewRenderer()
		printMarkdown := func(md string) {
			out, err := render(md)
			if err != nil {
				fmt.Println(md)
				return
			}
			fmt.Print(out)
		}

		tui.PrintBanner()
		printMarkdown(session.Greeting)

		reader := bufio.NewReader(os.Stdin)
		for {
			fmt.Print(tui.Prompt())
			line, err := reader.ReadString('\n')
			if err != nil {
				fmt.Println()
				break
			}
			input := strings.TrimSpace(line)
			if input == "" {
				continue
			}

			switch input {
			case "/quit", "/exit", "exit", "quit":
				fmt.Println("Bye!")
				return
			case "/show":
				fmt.Println(string(workflow.EncodeJSONIndent(sess.Document)))
				continue
			case "/graph":
				fmt.Println(graph.GenerateMermaid(sess.Document))
				continue
			}

			res, err := arch.Submit(cmd.Context(), sess, input)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				continue
			}
			printMarkdown(res.Message)

			if err := mgr.Save(cmd.Context(), sess); err != nil {
				logger.Warn("failed to persist session", "session", sess.ID, "err", err)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringP("session", "s", "default", "Session ID to open or resume")
}

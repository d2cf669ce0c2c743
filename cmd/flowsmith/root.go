package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/flowsmith/flowsmith"
	"github.com/flowsmith/flowsmith/internal/logging"
	"github.com/flowsmith/flowsmith/pkg/adapters/memory"
	"github.com/flowsmith/flowsmith/pkg/adapters/openrouter"
	redisstore "github.com/flowsmith/flowsmith/pkg/adapters/redis"
	"github.com/flowsmith/flowsmith/pkg/session"
)

var rootCmd = &cobra.Command{
	Use:   "flowsmith",
	Short: "Flowsmith is a conversational workflow architect",
	Long: `Flowsmith turns natural-language instructions into typed workflow
documents through a validated, atomic update loop.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("model", "", "Model to use for generation (overrides FLOWSMITH_MODEL)")
	rootCmd.PersistentFlags().String("redis", "", "Redis address for session persistence (e.g. localhost:6379)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")

	// .env is optional; environment variables win when both are set.
	_ = godotenv.Load()
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	name, _ := cmd.Flags().GetString("log-level")
	level := slog.LevelInfo
	switch name {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return logging.New(level)
}

// newArchitect builds the Architect from flags and environment.
func newArchitect(cmd *cobra.Command, logger *slog.Logger) (*flowsmith.Architect, error) {
	key := os.Getenv("OPENROUTER_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("OPENROUTER_API_KEY is not set")
	}

	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = os.Getenv("FLOWSMITH_MODEL")
	}

	var opts []openrouter.Option
	if model != "" {
		opts = append(opts, openrouter.WithModel(model))
	}
	gen := openrouter.New(key, opts...)

	return flowsmith.New(gen, flowsmith.WithLogger(logger)), nil
}

// newSessionManager picks the session backend: Redis when --redis is given,
// in-process memory otherwise.
func newSessionManager(cmd *cobra.Command, logger *slog.Logger) (*session.Manager, error) {
	addr, _ := cmd.Flags().GetString("redis")
	if addr == "" {
		addr = os.Getenv("FLOWSMITH_REDIS")
	}

	var store session.Store
	if addr != "" {
		store = redisstore.New(addr, os.Getenv("FLOWSMITH_REDIS_PASSWORD"), 0,
			redisstore.WithTTL(24*time.Hour))
		logger.Info("using redis session store", "addr", addr)
	} else {
		store = memory.New()
	}

	return session.NewManager(store, session.WithLogger(logger)), nil
}

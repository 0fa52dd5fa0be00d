package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"movies-api/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(config.New()).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "movies-server: %v\n", err)
		os.Exit(1)
	}
}

// newRootCommand собирает CLI. Без подкоманды запускается сервер.
func newRootCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "movies-server",
		Short: "In-memory movies REST API",
		Long: `movies-server serves CRUD over a movie collection seeded from a JSON file.
Configuration comes from PORT, SEED_FILE, ALLOWED_ORIGINS, REQUEST_TIMEOUT,
LOG_LEVEL and LEGACY_GENRE_FILTER (also readable from .env), flags win over env.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), v)
		},
	}

	cmd.PersistentFlags().Int("port", 1234, "HTTP port to listen on")
	cmd.PersistentFlags().String("seed", "movies.json", "Seed JSON file with the initial collection")
	_ = v.BindPFlag(config.KeyPort, cmd.PersistentFlags().Lookup("port"))
	_ = v.BindPFlag(config.KeySeedFile, cmd.PersistentFlags().Lookup("seed"))

	cmd.AddCommand(
		newServeCmd(v),
		newCheckSeedCmd(v),
	)
	return cmd
}

func newServeCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), v)
		},
	}
}

func newCheckSeedCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "check-seed [file]",
		Short: "Validate every record of a seed file against the movie schema",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := v.GetString(config.KeySeedFile)
			if len(args) == 1 {
				file = args[0]
			}
			return runCheckSeed(cmd.Context(), cmd.OutOrStdout(), file)
		},
	}
}

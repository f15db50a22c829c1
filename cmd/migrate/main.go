package main

import (
	"context"
	"fmt"
	"os"
	"time"

	schema "go-evelink/migrations"
	"go-evelink/pkg/database"
	"go-evelink/pkg/migrations"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		runner  *migrations.Runner
		mongodb *database.MongoDB
	)

	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Apply, roll back or list evelink MongoDB migrations",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			var err error
			mongodb, err = database.NewMongoDB(cmd.Context(), "evelink")
			if err != nil {
				return err
			}
			runner = migrations.NewRunner(mongodb.Database)
			schema.RegisterAll(runner)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return mongodb.Close(context.Background())
		},
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ran, err := runner.Run(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s)\n", ran)
			return err
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reverted, err := runner.Rollback(cmd.Context(), steps)
			fmt.Fprintf(cmd.OutOrStdout(), "Rolled back %d migration(s)\n", reverted)
			return err
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	status := &cobra.Command{
		Use:   "status",
		Short: "List migrations and when they were applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses, err := runner.Status(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			pending := 0
			for _, s := range statuses {
				switch {
				case s.AppliedAt == nil:
					pending++
					fmt.Fprintf(out, "pending  %s - %s\n", s.Version, s.Description)
				case s.Modified:
					fmt.Fprintf(out, "modified %s - %s (at %s)\n", s.Version, s.Description, s.AppliedAt.Format(time.DateTime))
				default:
					fmt.Fprintf(out, "applied  %s - %s (at %s)\n", s.Version, s.Description, s.AppliedAt.Format(time.DateTime))
				}
			}
			fmt.Fprintf(out, "\nTotal: %d migrations (%d applied, %d pending)\n", len(statuses), len(statuses)-pending, pending)
			return nil
		},
	}

	root.AddCommand(up, down, status)
	return root
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/walloflove/wol-server/internal/config"
	"github.com/walloflove/wol-server/internal/seed"
	"github.com/walloflove/wol-server/internal/store/sqlite"
)

func newSeedCmd(root *rootOptions) *cobra.Command {
	var (
		file         string
		dbPath       string
		skipExisting bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load widgets and testimonials from a YAML fixture",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if file == "" {
				return errors.New("--file flag is required")
			}

			if dbPath == "" {
				// Same DATABASE_PATH resolution as the server.
				cfg, err := config.Load(flag.NewFlagSet("wolctl", flag.ContinueOnError), nil)
				if err != nil {
					return fmt.Errorf("config: %w", err)
				}
				dbPath = cfg.Database.Path
			}

			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open fixture: %w", err)
			}
			defer f.Close()

			fixture, err := seed.Load(f)
			if err != nil {
				return fmt.Errorf("fixture %s: %w", file, err)
			}

			log := root.logger(cmd.ErrOrStderr())
			if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
				return fmt.Errorf("create database directory: %w", err)
			}
			st, err := sqlite.Open(dbPath, log.Component("store"))
			if err != nil {
				return err
			}
			defer st.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			res, err := seed.Apply(ctx, st, fixture, seed.Options{
				SkipExisting: skipExisting,
				Logger:       log.Component("seed"),
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Seeded %d widgets and %d testimonials into %s\n", len(res.WidgetIDs), res.Testimonials, dbPath)
			if res.Skipped > 0 {
				fmt.Fprintf(out, "Skipped %d existing rows\n", res.Skipped)
			}
			if len(res.WidgetIDs) > 0 {
				fmt.Fprintf(out, "Widgets: %s\n", strings.Join(res.WidgetIDs, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Fixture file (YAML)")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (defaults to DATABASE_PATH)")
	cmd.Flags().BoolVar(&skipExisting, "skip-existing", false, "Skip rows whose id already exists")
	return cmd
}

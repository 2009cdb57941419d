package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"gisflow/internal/fixture"
	"gisflow/internal/source"
	"gisflow/internal/store"
)

func newDBCommand(ctx *commandContext) *cobra.Command {
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Local snapshot database maintenance",
	}

	dbCmd.AddCommand(newDBInitCommand(ctx))
	dbCmd.AddCommand(newDBImportCommand(ctx))
	dbCmd.AddCommand(newDBExportCommand(ctx))
	dbCmd.AddCommand(newDBCountsCommand(ctx))

	return dbCmd
}

func (c *commandContext) withStore(fn func(*store.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.logger()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	st, err := store.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}

func newDBInitCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the local snapshot database if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				version, err := st.SchemaVersion(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Snapshot database ready at %s (schema v%d)\n", st.Path(), version)
				return nil
			})
		},
	}
}

func newDBImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the local snapshot database with a YAML fixture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := fixture.LoadFile(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(st *store.Store) error {
				stats, err := st.Import(cmd.Context(), snap)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Imported %s into %s\n", args[0], st.Path())
				fmt.Fprintln(out, renderTable(
					[]string{"Table", "Rows"},
					importRows(stats),
					withAligns(alignLeft, alignRight),
					withFooter("total", strconv.Itoa(stats.Total())),
				))
				return nil
			})
		},
	}
}

func importRows(stats store.ImportStats) [][]string {
	row := func(name string, n int) []string { return []string{name, strconv.Itoa(n)} }
	return [][]string{
		row("documents", stats.Documents),
		row("reviews", stats.Reviews),
		row("pins", stats.PINs),
		row("processing", stats.Processing),
		row("clearance", stats.Clearance),
		row("tc_reviews", stats.TCReviews),
		row("followups", stats.FollowUps),
	}
}

func newDBExportCommand(ctx *commandContext) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the configured source's snapshot as a YAML fixture",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			src, err := source.Open(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer src.Close()

			snap, err := src.LoadSnapshot(cmd.Context())
			if err != nil {
				return fmt.Errorf("load snapshot from %s: %w", src.Describe(), err)
			}

			target := strings.TrimSpace(outputPath)
			if target == "" || target == "-" {
				return fixture.Encode(cmd.OutOrStdout(), snap)
			}
			file, err := os.Create(target)
			if err != nil {
				return fmt.Errorf("create %s: %w", target, err)
			}
			if err := fixture.Encode(file, snap); err != nil {
				_ = file.Close()
				return err
			}
			if err := file.Close(); err != nil {
				return fmt.Errorf("close %s: %w", target, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d documents to %s\n", len(snap.Documents), target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination file (default stdout)")
	return cmd
}

func newDBCountsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "counts",
		Short: "Show row counts for each snapshot table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				counts, err := st.TableCounts(cmd.Context())
				if err != nil {
					return err
				}
				tables := make([]string, 0, len(counts))
				for name := range counts {
					tables = append(tables, name)
				}
				sort.Strings(tables)
				rows := make([][]string, 0, len(tables))
				for _, name := range tables {
					rows = append(rows, []string{name, strconv.Itoa(counts[name])})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Table", "Rows"}, rows, withAligns(alignLeft, alignRight)))
				return nil
			})
		},
	}
}

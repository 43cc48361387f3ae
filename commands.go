package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nonsonwune/hirehub/filter"
	"github.com/nonsonwune/hirehub/importer"
	"github.com/nonsonwune/hirehub/insights"
	"github.com/nonsonwune/hirehub/present"
	"github.com/nonsonwune/hirehub/sorter"
)

func (c *cli) filterCommand() *cobra.Command {
	var (
		spec   filter.Spec
		skills string
		sortBy string
		view   string
		prefix string
	)

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Filter candidates and print them",
		Long: "Filter candidates by field, college, degree, company and position (comma-separated values are alternatives) " +
			"and by skills (comma-separated, all required).",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := present.ParseView(view)
			if err != nil {
				return err
			}
			var key sorter.Key
			if sortBy != "" {
				if key, err = sorter.ParseKey(sortBy); err != nil {
					return err
				}
			}
			spec.Skills = filter.ParseSkills(skills)

			rs, err := c.app.store.FetchFiltered(cmd.Context(), spec)
			if err != nil {
				return err
			}
			if key != "" {
				if rs, err = sorter.Sort(rs, key); err != nil {
					return err
				}
			}
			if err := c.app.printer.Render(v, rs); err != nil {
				return err
			}
			if prefix != "" {
				c.app.writeExport(rs, prefix)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&spec.Field, "field", "", "Field(s) of study")
	cmd.Flags().StringVar(&spec.College, "college", "", "College(s)")
	cmd.Flags().StringVar(&spec.Degree, "degree", "", "Degree(s)")
	cmd.Flags().StringVar(&spec.Company, "company", "", "Company(s)")
	cmd.Flags().StringVar(&spec.Position, "position", "", "Position(s)")
	cmd.Flags().StringVar(&skills, "skills", "", "Skills that must all be present, comma-separated")
	cmd.Flags().StringVar(&sortBy, "sort", "", "Sort key: name, college, degree, field, company, position or skills_count")
	cmd.Flags().StringVar(&view, "view", "table", "Output view: table or card")
	cmd.Flags().StringVar(&prefix, "export", "", "Also write the rows to PREFIX.csv and PREFIX.xlsx")
	return cmd
}

func (c *cli) insightsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "insights",
		Short: "Print the statistics dashboard for all candidates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rs, err := c.app.store.FetchAll(cmd.Context())
			if err != nil {
				return err
			}
			err = insights.Dashboard(c.con.out, insights.Summarize(rs))
			if errors.Is(err, insights.ErrNoData) {
				return nil
			}
			return err
		},
	}
}

func (c *cli) importCommand() *cobra.Command {
	var cfg importer.ImportConfig

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Bulk import candidates from a CSV file",
		Long: "Import candidates from a CSV file. Headers are matched to the candidate columns; rows that cannot be " +
			"imported are written to the failed imports directory.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.SourceFile = args[0]
			if cfg.WorkerCount == 0 {
				cfg.WorkerCount = c.app.cfg.WorkerCount
			}
			if cfg.DryRun {
				c.con.printf("\nUsing %d workers for parallel processing\n", cfg.WorkerCount)
			}

			report, err := importer.Run(cmd.Context(), c.app.store, cfg)
			if err != nil {
				return fmt.Errorf("error importing data: %w", err)
			}
			report.Print(c.con.out)
			if !cfg.DryRun {
				c.con.success("Import completed: %d of %d rows imported.", report.Imported, report.Total)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "Analyze the file without writing to the database")
	cmd.Flags().IntVar(&cfg.BatchSize, "batch-size", importer.DefaultBatchSize, "Rows per batch")
	cmd.Flags().IntVar(&cfg.WorkerCount, "workers", 0, "Dry-run workers (default WORKER_COUNT)")
	cmd.Flags().StringVar(&cfg.FailedDir, "failed-dir", importer.DefaultFailedDir, "Directory for rejected rows")
	return cmd
}

func (c *cli) askCommand() *cobra.Command {
	var view string

	cmd := &cobra.Command{
		Use:   "ask QUESTION",
		Short: "Filter candidates with a plain-language question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := present.ParseView(view)
			if err != nil {
				return err
			}
			rs, err := c.app.answer(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return c.app.printer.Render(v, rs)
		},
	}

	cmd.Flags().StringVar(&view, "view", "table", "Output view: table or card")
	return cmd
}

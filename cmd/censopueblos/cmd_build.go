package main

import (
	"github.com/spf13/cobra"

	"github.com/camilodvr/censopueblos/internal/dataset"
	"github.com/camilodvr/censopueblos/internal/store"
	"github.com/camilodvr/censopueblos/pkg/validation"
)

type buildFlags struct {
	Input         string `validate:"required,workbook_ext"`
	OutputCSV     string
	OutputParquet string
	OutputSQLite  string
}

var buildOpts buildFlags

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the canonical dataset from the census workbook",
	Long: `Reads the DANE census workbook, detects the department, municipality,
people-code and population columns, joins the peoples catalog, and writes the
canonical municipality-by-people table. With --output-sqlite it instead
materializes the full relational schema and verifies the snapshot against the
CNPV-2018 reference totals.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildOpts.Input, "input", "", "Path to the census workbook (.xlsx)")
	buildCmd.Flags().StringVar(&buildOpts.OutputCSV, "output-csv", "", "Write the canonical table as delimited text")
	buildCmd.Flags().StringVar(&buildOpts.OutputParquet, "output-parquet", "", "Write the canonical table as columnar binary")
	buildCmd.Flags().StringVar(&buildOpts.OutputSQLite, "output-sqlite", "", "Materialize the relational SQLite database")
	_ = buildCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	if err := validation.ValidateStruct(buildOpts); err != nil {
		return err
	}
	builder := &dataset.Builder{Log: logger}

	if buildOpts.OutputSQLite != "" {
		data, err := builder.BuildRelational(buildOpts.Input)
		if err != nil {
			return err
		}
		if err := store.MaterializeSQLite(data, buildOpts.OutputSQLite); err != nil {
			return err
		}
		logger.Info().Str("path", buildOpts.OutputSQLite).Msg("relational database materialized")
	}

	if buildOpts.OutputCSV == "" && buildOpts.OutputParquet == "" && buildOpts.OutputSQLite != "" {
		return nil
	}

	table, err := builder.Build(buildOpts.Input)
	if err != nil {
		return err
	}
	for _, out := range []string{buildOpts.OutputCSV, buildOpts.OutputParquet} {
		if out == "" {
			continue
		}
		if err := store.SaveTable(table, out); err != nil {
			return err
		}
		logger.Info().Str("path", out).Int("rows", len(table.Rows)).Msg("canonical table written")
	}
	return nil
}

package registry

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/camilodvr/censopueblos/internal/analysis"
	"github.com/camilodvr/censopueblos/internal/report"
	"github.com/camilodvr/censopueblos/internal/service"
	"github.com/camilodvr/censopueblos/pkg/errs"
)

// FilterInput carries the optional selection filters shared by every tool.
// Peoples accepts codes and display names interchangeably.
type FilterInput struct {
	Peoples        []string `json:"peoples,omitempty" jsonschema_description:"People codes or names to include (empty = all)"`
	Departments    []string `json:"departments,omitempty" jsonschema_description:"Departments to include (empty = all)"`
	Municipalities []string `json:"municipalities,omitempty" jsonschema_description:"Municipality names to include (empty = all)"`
}

func (in FilterInput) selection() analysis.Selection {
	return analysis.Selection{
		Peoples:        in.Peoples,
		Departments:    in.Departments,
		Municipalities: in.Municipalities,
	}
}

// ExportReportInput adds the destination path to the shared filters.
type ExportReportInput struct {
	FilterInput
	OutputPath string `json:"output_path" jsonschema_description:"Destination .xlsx path for the assembled report"`
}

// ExportReportOutput reports where the workbook was written.
type ExportReportOutput struct {
	Path  string `json:"path"`
	Bytes int    `json:"bytes"`
}

// RegisterDatasetTools wires the option, aggregate, by-people, and report
// tools against the dataset service.
func RegisterDatasetTools(s *server.MCPServer, reg *Registry, svc *service.Service) {
	lo := mcp.NewTool(
		"list_options",
		mcp.WithDescription("List the distinct people names, departments, and municipalities present in the canonical CNPV-2018 dataset. Use the returned values to build filters for the other tools."),
		mcp.WithInputSchema[struct{}](),
		mcp.WithOutputSchema[optionsOutput](),
	)
	s.AddTool(lo, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, error) {
		opts, err := svc.Options()
		if err != nil {
			return toolError(err), nil
		}
		out := optionsOutput{
			Peoples:        opts.Peoples,
			Departments:    opts.Departments,
			Municipalities: opts.Municipalities,
		}
		summary := fmt.Sprintf("peoples=%d departments=%d municipalities=%d",
			len(out.Peoples), len(out.Departments), len(out.Municipalities))
		return structured(out, summary), nil
	}))
	reg.Register(lo)

	ag := mcp.NewTool(
		"aggregate_indicators",
		mcp.WithDescription("Compute total population, distinct people count, and the HHI, Simpson, and Shannon diversity indices over a filtered subset of the dataset. Filters combine with AND; the peoples filter matches codes or names. An empty selection returns EMPTY_SELECTION."),
		mcp.WithInputSchema[FilterInput](),
		mcp.WithOutputSchema[analysis.GlobalIndicators](),
	)
	s.AddTool(ag, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in FilterInput) (*mcp.CallToolResult, error) {
		out, err := svc.Aggregate(in.selection())
		if err != nil {
			return toolError(err), nil
		}
		summary := fmt.Sprintf("total_population=%d people_count=%d", out.TotalPopulation, out.PeopleCount)
		if out.HHI != nil {
			summary += fmt.Sprintf(" hhi=%.4f", *out.HHI)
		}
		return structured(out, summary), nil
	}))
	reg.Register(ag)

	bp := mcp.NewTool(
		"population_by_people",
		mcp.WithDescription("Return population and share per people over a filtered subset, sorted descending by population. Filters combine with AND; the peoples filter matches codes or names. An empty selection returns EMPTY_SELECTION."),
		mcp.WithInputSchema[FilterInput](),
		mcp.WithOutputSchema[byPeopleOutput](),
	)
	s.AddTool(bp, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in FilterInput) (*mcp.CallToolResult, error) {
		shares, err := svc.ByPeople(in.selection())
		if err != nil {
			return toolError(err), nil
		}
		out := byPeopleOutput{Peoples: shares}
		var lines []string
		lines = append(lines, fmt.Sprintf("groups=%d", len(shares)))
		max := len(shares)
		if max > 5 {
			max = 5
		}
		for i := 0; i < max; i++ {
			lines = append(lines, fmt.Sprintf("- %s: %d (%.3f)", shares[i].PeopleName, shares[i].Population, shares[i].Share))
		}
		res := structured(out, lines[0])
		res.Content = []mcp.Content{mcp.NewTextContent(strings.Join(lines, "\n"))}
		return res, nil
	}))
	reg.Register(bp)

	er := mcp.NewTool(
		"export_report",
		mcp.WithDescription("Assemble the five-sheet Excel report (filtered base, municipality indicators, department indicators, municipality-by-people matrix, dictionary) for a filtered subset and write it to output_path. An empty selection returns EMPTY_SELECTION."),
		mcp.WithInputSchema[ExportReportInput](),
		mcp.WithOutputSchema[ExportReportOutput](),
	)
	s.AddTool(er, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in ExportReportInput) (*mcp.CallToolResult, error) {
		path := strings.TrimSpace(in.OutputPath)
		if path == "" {
			return mcp.NewToolResultError("VALIDATION: output_path is required"), nil
		}
		if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
			return mcp.NewToolResultError("VALIDATION: output_path must end in .xlsx"), nil
		}
		data, err := svc.Report(in.selection())
		if err != nil {
			return toolError(err), nil
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return mcp.NewToolResultError("EXPORT_FAILED: " + err.Error()), nil
		}
		out := ExportReportOutput{Path: path, Bytes: len(data)}
		return structured(out, fmt.Sprintf("wrote %d bytes to %s (%s)", out.Bytes, out.Path, report.Filename)), nil
	}))
	reg.Register(er)
}

type optionsOutput struct {
	Peoples        []string `json:"peoples"`
	Departments    []string `json:"departments"`
	Municipalities []string `json:"municipalities"`
}

type byPeopleOutput struct {
	Peoples []analysis.PeopleShare `json:"peoples"`
}

func structured(out any, summary string) *mcp.CallToolResult {
	res := mcp.NewToolResultStructured(out, summary)
	res.Content = []mcp.Content{mcp.NewTextContent(summary)}
	return res
}

// toolError maps domain errors to the CODE-prefixed convention MCP clients
// key on.
func toolError(err error) *mcp.CallToolResult {
	if errors.Is(err, errs.ErrEmptySelection) {
		return mcp.NewToolResultError("EMPTY_SELECTION: the selection contains no rows; relax the filters")
	}
	var schemaErr *errs.SchemaDetectionError
	if errors.As(err, &schemaErr) {
		return mcp.NewToolResultError("SCHEMA_DETECTION: " + schemaErr.Error())
	}
	var formatErr *errs.UnsupportedFormatError
	if errors.As(err, &formatErr) {
		return mcp.NewToolResultError("UNSUPPORTED_FORMAT: " + formatErr.Error())
	}
	return mcp.NewToolResultError("QUERY_FAILED: " + err.Error())
}

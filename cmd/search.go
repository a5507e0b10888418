package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/enfoco/enfoco/internal/catalog"
	"github.com/enfoco/enfoco/internal/gateway"
	"github.com/enfoco/enfoco/internal/progress"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Semantically search one archive section",
	Long:  `Runs a gateway search over a catalog section. An empty query lists the whole section; an unreachable model yields the offline fallback.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().String("section", "visual", "catalog section to search")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().Bool("all", false, "search every section except the vault")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	key, _ := cmd.Flags().GetString("section")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	all, _ := cmd.Flags().GetBool("all")

	var query string
	if len(args) == 1 {
		query = args[0]
	}

	cat, err := loadCatalog(cfg)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	if all {
		return runSearchAll(cmd, cat, query, jsonOutput)
	}

	section, ok := cat.Section(key)
	if !ok || key == "vault" {
		return fmt.Errorf("unknown section %q (use `enfoco vault` for the vault)", key)
	}

	res := newGateway(cfg, logger).Search(cmd.Context(), query, section.Dataset(), section.Label)

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, res)
	}
	printSearchResult(out, section.Label, res)
	return nil
}

// runSearchAll sweeps the query across every searchable section in catalog
// order, one gateway call per section.
func runSearchAll(cmd *cobra.Command, cat *catalog.Catalog, query string, jsonOutput bool) error {
	gw := newGateway(cfg, logger)

	var sections []*catalog.Section
	for _, s := range cat.Sections() {
		if s.Key != "vault" {
			sections = append(sections, s)
		}
	}

	reporter := progress.NewReporter(cmd.ErrOrStderr())
	reporter.Start(len(sections), "Searching archive")
	results := make(map[string]gateway.SearchResult, len(sections))
	for _, s := range sections {
		reporter.Step(s.Label)
		results[s.Key] = gw.Search(cmd.Context(), query, s.Dataset(), s.Label)
	}
	reporter.Finish()

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, results)
	}
	for _, s := range sections {
		printSearchResult(out, s.Label, results[s.Key])
		fmt.Fprintln(out)
	}
	return nil
}

func printSearchResult(out io.Writer, label string, res gateway.SearchResult) {
	if res.Insight != "" {
		fmt.Fprintf(out, "%s\n\n", res.Insight)
	}
	if len(res.Results) == 0 {
		fmt.Fprintf(out, "No results found in %s.\n", label)
		return
	}
	fmt.Fprintf(out, "Found %d results in %s (%s):\n\n", len(res.Results), label, res.Source)
	for i, r := range res.Results {
		fmt.Fprintf(out, "%d. %s\n", i+1, recordLine(r))
	}
}

// recordLine renders a record by id and its best human-readable field.
func recordLine(r map[string]any) string {
	var parts []string
	if id, ok := r["id"]; ok {
		parts = append(parts, fmt.Sprintf("[%v]", id))
	}
	for _, key := range []string{"title", "name"} {
		if v, ok := r[key].(string); ok && v != "" {
			parts = append(parts, v)
			break
		}
	}
	for _, key := range []string{"author", "artist", "source", "type"} {
		if v, ok := r[key].(string); ok && v != "" {
			parts = append(parts, "("+v+")")
			break
		}
	}
	return strings.Join(parts, " ")
}

package main

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/yungbote/nexuslearn-backend/internal/catalog"
	"github.com/yungbote/nexuslearn-backend/internal/platform/logger"
	"github.com/yungbote/nexuslearn-backend/internal/services"
)

var catalogOpts struct {
	typ        string
	subject    string
	section    string
	dataKey    string
	year       string
	session    string
	paperGroup string
	withDB     bool
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the resource catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the merged entries of one partition",
	RunE:  runCatalogList,
}

var catalogYearsCmd = &cobra.Command{
	Use:   "years",
	Short: "List the available years of one partition",
	RunE:  runCatalogYears,
}

func init() {
	pf := catalogCmd.PersistentFlags()
	pf.StringVar(&catalogOpts.typ, "type", "alevel", "qualification type (alevel, sat, olevel, igcse)")
	pf.StringVar(&catalogOpts.subject, "subject", "", "subject name")
	pf.StringVar(&catalogOpts.section, "section", "yearly", "section (books, yearly, topical, sa_resources)")
	pf.StringVar(&catalogOpts.dataKey, "data-key", "", "optional sub-partition key")
	pf.BoolVar(&catalogOpts.withDB, "db", false, "merge admin-created records from the database")

	catalogListCmd.Flags().StringVar(&catalogOpts.year, "year", "", "yearly filter: year")
	catalogListCmd.Flags().StringVar(&catalogOpts.session, "session", "", "yearly filter: session")
	catalogListCmd.Flags().StringVar(&catalogOpts.paperGroup, "paper-group", "", "yearly filter: paper code prefix")

	catalogCmd.AddCommand(catalogListCmd, catalogYearsCmd)
}

// openAggregator returns an aggregator over the bundled catalog, backed by the
// database only when --db is set.
func openAggregator(ctx context.Context) (*catalog.Aggregator, func(), error) {
	static, err := catalog.Bundled()
	if err != nil {
		return nil, nil, err
	}
	if !catalogOpts.withDB {
		return catalog.NewAggregator(static, nil, logger.Nop()), func() {}, nil
	}
	e, err := openEnv(ctx)
	if err != nil {
		return nil, nil, err
	}
	return catalog.NewAggregator(static, services.NewRecordSource(e.res), e.log), e.Close, nil
}

func partitionFromFlags() (catalog.Partition, error) {
	return services.ParsePartition(services.PartitionInput{
		Type:    catalogOpts.typ,
		Subject: catalogOpts.subject,
		Section: catalogOpts.section,
		DataKey: catalogOpts.dataKey,
	})
}

func runCatalogList(cmd *cobra.Command, _ []string) error {
	p, err := partitionFromFlags()
	if err != nil {
		return err
	}
	agg, closeFn, err := openAggregator(cmd.Context())
	if err != nil {
		return err
	}
	defer closeFn()

	var filter *catalog.YearlyFilter
	if catalogOpts.year != "" || catalogOpts.session != "" || catalogOpts.paperGroup != "" {
		filter = &catalog.YearlyFilter{Year: catalogOpts.year, Session: catalogOpts.session, PaperGroupPrefix: catalogOpts.paperGroup}
	}
	entries := agg.ListResources(cmd.Context(), p, filter)
	if len(entries) == 0 {
		color.Yellow("no entries for %s/%s/%s", p.Type, p.Subject, p.Section)
		return nil
	}
	color.Cyan("%d entries for %s/%s/%s", len(entries), p.Type, p.Subject, p.Section)
	renderEntries(cmd.OutOrStdout(), entries)
	return nil
}

func runCatalogYears(cmd *cobra.Command, _ []string) error {
	p, err := partitionFromFlags()
	if err != nil {
		return err
	}
	agg, closeFn, err := openAggregator(cmd.Context())
	if err != nil {
		return err
	}
	defer closeFn()

	years := agg.AvailableYears(cmd.Context(), p)
	if len(years) == 0 {
		color.Yellow("no years for %s/%s/%s", p.Type, p.Subject, p.Section)
		return nil
	}
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"Year"})
	for _, y := range years {
		table.Append([]string{y})
	}
	table.Render()
	return nil
}

func renderEntries(w io.Writer, entries []catalog.Entry) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Identity", "Name", "Origin", "Order", "Links"})
	for i, e := range entries {
		first, second, third := e.Links.Slots()
		var labels []string
		for _, l := range []catalog.Link{first, second, third} {
			if l.Present() {
				labels = append(labels, l.Label)
			}
		}
		table.Append([]string{
			strconv.Itoa(i + 1),
			e.DerivedIdentity(),
			e.Name,
			string(e.Origin),
			strconv.Itoa(e.Order),
			strings.Join(labels, ", "),
		})
	}
	table.Render()
}

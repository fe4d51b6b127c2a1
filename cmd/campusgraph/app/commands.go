package app

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/campusgraph/campusgraph"
	"github.com/campusgraph/campusgraph/internal/schema"
	"github.com/campusgraph/campusgraph/pkg/graph"
	"github.com/campusgraph/campusgraph/pkg/minter"
	"github.com/campusgraph/campusgraph/pkg/reconcile"
	"github.com/campusgraph/campusgraph/pkg/report"
	"github.com/campusgraph/campusgraph/pkg/source"
)

// commands builds the command tree.
func (a *App) commands() *cobra.Command {
	root := &cobra.Command{
		Use:           "campusgraph",
		Short:         "Reconcile institutional systems of record with the knowledge graph",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.config.QueryEndpoint, "endpoint", a.config.QueryEndpoint, "SPARQL query endpoint")
	flags.StringVar(&a.config.UpdateEndpoint, "update-endpoint", a.config.UpdateEndpoint, "SPARQL update endpoint (defaults to the query endpoint)")
	flags.StringVar(&a.config.Namespace, "namespace", a.config.Namespace, "IRI prefix for minted identifiers")
	flags.BoolVar(&a.config.DryRun, "dry-run", a.config.DryRun, "compute the run without publishing")
	flags.StringVar(&a.config.AdditionsFile, "additions", a.config.AdditionsFile, "write additions as N-Triples to this file")
	flags.StringVar(&a.config.RetractionsFile, "retractions", a.config.RetractionsFile, "write retractions as N-Triples to this file")
	flags.StringVar(&a.config.ReportFile, "report", a.config.ReportFile, "write the run report to this file instead of stdout")
	flags.StringVar(&a.config.ExclusionsFile, "exclusions", a.config.ExclusionsFile, "file of natural keys to leave untouched, one per line")

	root.AddCommand(a.peopleCommand())
	root.AddCommand(a.grantsCommand())
	root.AddCommand(a.coursesCommand())
	root.AddCommand(a.versionCommand())
	return root
}

func (a *App) peopleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "people <feed.csv>",
		Short: "Reconcile the HR person feed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := a.readFeed(args[0])
			if err != nil {
				return err
			}
			exclusions, err := a.loadExclusions()
			if err != nil {
				return err
			}
			return a.run(cmd, func(eng campusgraph.Engine) ([]*report.Report, error) {
				rep, err := eng.Run(cmd.Context(), schema.People(exclusions), schema.PeopleFeed(rows))
				if err != nil {
					return nil, err
				}
				return []*report.Report{rep}, nil
			})
		},
	}
}

func (a *App) grantsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "grants <feed.csv>",
		Short: "Reconcile the sponsored research feed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := a.readFeed(args[0])
			if err != nil {
				return err
			}
			return a.run(cmd, func(eng campusgraph.Engine) ([]*report.Report, error) {
				rep, err := eng.Run(cmd.Context(), schema.Grants(), schema.GrantFeed(rows))
				if err != nil {
					return nil, err
				}
				return []*report.Report{rep}, nil
			})
		},
	}
}

func (a *App) coursesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "courses <feed.csv>",
		Short: "Reconcile the registrar course feed",
		Long: "Reconcile the registrar course feed. Terms, courses, and " +
			"sections run in that order so each pass can resolve what " +
			"the previous one created.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := a.readFeed(args[0])
			if err != nil {
				return err
			}
			terms, courses, sections := schema.CourseFeeds(rows)
			passes := []feedTable{
				{schema.Terms(), terms},
				{schema.Courses(), courses},
				{schema.Sections(), sections},
			}
			return a.run(cmd, func(eng campusgraph.Engine) ([]*report.Report, error) {
				var reports []*report.Report
				for _, pass := range passes {
					rep, err := eng.Run(cmd.Context(), pass.table, pass.feed)
					if err != nil {
						return reports, err
					}
					reports = append(reports, rep)
				}
				return reports, nil
			})
		},
	}
}

func (a *App) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "campusgraph %s (commit %s, built %s)\n", a.version, a.commit, a.date)
		},
	}
}

type feedTable struct {
	table *reconcile.Table
	feed  source.Feed
}

// run builds the engine per the current configuration, executes the
// passes, and writes the reports.
func (a *App) run(cmd *cobra.Command, passes func(campusgraph.Engine) ([]*report.Report, error)) error {
	if a.config.QueryEndpoint == "" {
		return fmt.Errorf("a query endpoint is required (--endpoint or CAMPUSGRAPH_QUERY_ENDPOINT)")
	}

	store := graph.NewSPARQLClient(a.config.QueryEndpoint,
		graph.WithUpdateEndpoint(a.config.UpdateEndpoint))

	opts := []campusgraph.Option{
		campusgraph.WithStore(store),
		campusgraph.WithLogger(a.logger),
		campusgraph.WithDryRun(a.config.DryRun),
	}
	opts = append(opts, schema.EngineOptions()...)
	if a.config.Namespace != "" {
		opts = append(opts, campusgraph.WithMinter(minter.New(minter.WithNamespace(a.config.Namespace))))
	}

	closeTranscripts, opts, err := a.transcriptOptions(opts)
	if err != nil {
		return err
	}
	defer closeTranscripts()

	eng, err := campusgraph.New(opts...)
	if err != nil {
		return err
	}

	reports, runErr := passes(eng)
	if writeErr := a.writeReports(cmd.OutOrStdout(), reports); writeErr != nil && runErr == nil {
		runErr = writeErr
	}
	return runErr
}

// transcriptOptions opens the configured N-Triples output files.
func (a *App) transcriptOptions(opts []campusgraph.Option) (func(), []campusgraph.Option, error) {
	var files []*os.File
	open := func(path string) (io.Writer, error) {
		if path == "" {
			return nil, nil
		}
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("creating %s: %w", path, err)
		}
		files = append(files, f)
		return f, nil
	}

	closer := func() {
		for _, f := range files {
			f.Close()
		}
	}

	if a.config.AdditionsFile == "" && a.config.RetractionsFile == "" {
		return closer, opts, nil
	}
	additions, err := open(a.config.AdditionsFile)
	if err != nil {
		return closer, opts, err
	}
	retractions, err := open(a.config.RetractionsFile)
	if err != nil {
		return closer, opts, err
	}
	return closer, append(opts, campusgraph.WithTranscript(additions, retractions)), nil
}

// readFeed reads the delimited feed file into raw rows.
func (a *App) readFeed(path string) ([]*source.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening feed: %w", err)
	}
	defer f.Close()
	rows, err := source.ReadRows(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	a.logger.Info().Str("feed", path).Int("rows", len(rows)).Msg("Feed read")
	return rows, nil
}

// loadExclusions reads the configured exclusion file, one natural key
// per line. Blank lines and #-comments are skipped.
func (a *App) loadExclusions() (map[string]bool, error) {
	exclusions := make(map[string]bool)
	if a.config.ExclusionsFile == "" {
		return exclusions, nil
	}
	data, err := os.ReadFile(a.config.ExclusionsFile)
	if err != nil {
		return nil, fmt.Errorf("reading exclusions: %w", err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		exclusions[line] = true
	}
	return exclusions, nil
}

// writeReports renders the reports as a YAML document stream to the
// configured destination.
func (a *App) writeReports(stdout io.Writer, reports []*report.Report) error {
	if len(reports) == 0 {
		return nil
	}
	out := stdout
	if a.config.ReportFile != "" {
		f, err := os.Create(a.config.ReportFile)
		if err != nil {
			return fmt.Errorf("creating report file: %w", err)
		}
		defer f.Close()
		out = f
	}
	for i, rep := range reports {
		if i > 0 {
			if _, err := io.WriteString(out, "---\n"); err != nil {
				return err
			}
		}
		if err := rep.Write(out); err != nil {
			return err
		}
	}
	return nil
}

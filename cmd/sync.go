package cmd

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/schoolcal/internal/config"
	"github.com/teemow/schoolcal/internal/docs"
	"github.com/teemow/schoolcal/internal/email"
	"github.com/teemow/schoolcal/internal/event"
	"github.com/teemow/schoolcal/internal/ics"
	"github.com/teemow/schoolcal/internal/logging"
	"github.com/teemow/schoolcal/internal/ollama"
	"github.com/teemow/schoolcal/internal/schedule"
)

const ollamaProbeTimeout = 5 * time.Second

func newSyncCmd() *cobra.Command {
	var (
		configPath string
		account    string
		inputFile  string
		dumpDoc    bool
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Extract events and write the iCalendar file",
		Long: `Sync fetches the school calendar document, extracts dated events from
it and from locally saved emails, shows the result grouped by month, and
writes an .ics file after confirmation.

The first run creates a default config file; fill in google_doc_url and
run "schoolcal auth" before syncing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd.Context(), configPath, account, inputFile, dumpDoc, yes)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the configuration file")
	cmd.Flags().StringVarP(&account, "account", "a", "default", "Google account name the document is fetched with")
	cmd.Flags().StringVar(&inputFile, "input", "", "Read the calendar text from a local file instead of Google Docs")
	cmd.Flags().BoolVar(&dumpDoc, "dump-doc", false, "Print the fetched document text and exit")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Write the calendar file without asking for confirmation")

	return cmd
}

func runSync(ctx context.Context, configPath, account, inputFile string, dumpDoc, yes bool) error {
	logger := logging.WithOperation(slog.Default(), "sync")

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config %s: %w", configPath, err)
	}
	if inputFile == "" {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config %s: %w", configPath, err)
		}
	}

	loc, err := cfg.Location()
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	text, err := loadDocumentText(ctx, cfg, account, inputFile, logger)
	if err != nil {
		return err
	}

	if dumpDoc {
		fmt.Print(text)
		return nil
	}

	parser := schedule.NewParser(cfg.SchoolYearStart)
	events, stats := parser.Parse(text)
	logger.Info("document parsed",
		logging.Source(schedule.SourceName),
		slog.Int("lines", stats.Lines),
		slog.Int("bad_dates", stats.BadDates),
		logging.Count(len(events)),
	)

	emailEvents, err := extractEmailEvents(ctx, cfg, logger)
	if err != nil {
		return err
	}
	events = append(events, emailEvents...)

	if len(events) == 0 {
		logger.Warn("no events extracted, nothing to write")
		return nil
	}

	event.SortChronological(events)
	printReview(events)

	if !yes && !confirm(fmt.Sprintf("Write %d events to %s?", len(events), cfg.OutputFile)) {
		fmt.Println("Aborted.")
		return nil
	}

	writer := ics.NewWriter(cfg.CalendarName, loc)
	if err := writer.WriteFile(cfg.OutputFile, events); err != nil {
		return err
	}

	logger.Info("calendar written",
		logging.File(cfg.OutputFile),
		logging.Count(len(events)),
		logging.Status(logging.StatusSuccess),
	)
	fmt.Printf("Wrote %d events to %s\n", len(events), cfg.OutputFile)
	return nil
}

// loadDocumentText returns the raw calendar text, either from a local file
// or from the configured Google Doc.
func loadDocumentText(ctx context.Context, cfg *config.Config, account, inputFile string, logger *slog.Logger) (string, error) {
	if inputFile != "" {
		data, err := os.ReadFile(inputFile)
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		logger.Debug("loaded calendar text from file", logging.File(inputFile))
		return string(data), nil
	}

	docID, err := docs.ExtractDocumentID(cfg.GoogleDocURL)
	if err != nil {
		return "", err
	}

	if !docs.HasTokenForAccount(account) {
		return "", fmt.Errorf("no Google token for account %q; run: schoolcal auth --account %s", account, account)
	}

	client, err := docs.NewClientForAccount(ctx, account)
	if err != nil {
		return "", err
	}

	text, err := client.GetDocumentAsPlainText(docID)
	if err != nil {
		return "", err
	}
	logger.Debug("fetched calendar document",
		logging.Source("google-docs"),
		slog.String("document_id", docID),
	)
	return text, nil
}

// extractEmailEvents runs the email pipeline when an input folder is
// configured. The Ollama model is probed once up front; when it is not
// available the pipeline still runs, with fallback titles only.
func extractEmailEvents(ctx context.Context, cfg *config.Config, logger *slog.Logger) ([]event.Event, error) {
	if cfg.Email.InputFolder == "" {
		return nil, nil
	}

	client := ollama.NewClient(cfg.Email.Ollama.Host, cfg.Email.Ollama.Model, cfg.Email.Ollama.Temperature)

	var svc email.TitleService = client
	probeCtx, cancel := context.WithTimeout(ctx, ollamaProbeTimeout)
	defer cancel()
	if err := client.CheckModel(probeCtx); err != nil {
		logger.Warn("ollama not available, email titles fall back to heuristics",
			slog.String("model", client.Model()),
			logging.Err(err),
		)
		svc = nil
	}

	pipeline := email.NewPipeline(email.NewResolver(svc), cfg.SchoolYearStart, cfg.Email.ParallelWorkers)
	return pipeline.Run(ctx, cfg.Email.InputFolder)
}

// printReview writes the month-grouped event listing to stdout for the user
// to inspect before the calendar file is written.
func printReview(events []event.Event) {
	fmt.Printf("\nExtracted %d events:\n", len(events))
	for _, group := range event.GroupByMonth(events) {
		fmt.Printf("\n%s %d\n", group.Month, group.Year)
		for _, ev := range group.Events {
			when := ev.Date.Format("Mon Jan 02")
			if !ev.AllDay() {
				when += ev.StartTime.Format(" 15:04")
			}
			fmt.Printf("  %s  %s\n", when, ev.Title)
		}
	}
	fmt.Println()
}

// confirm asks a yes/no question on stdout and reads the answer from stdin.
// Anything but an explicit yes declines.
func confirm(question string) bool {
	fmt.Printf("%s [y/N]: ", question)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

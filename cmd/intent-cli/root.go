package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"kisan-intent/internal/common/config"
	"kisan-intent/internal/common/logger"
	"kisan-intent/internal/intent"
	"kisan-intent/internal/training"
	"kisan-intent/pkg/registry"

	cs "kisan-intent/internal/workers/ai-conversation/conversation-summary"
	di "kisan-intent/internal/workers/ai-conversation/detect-intent"
)

type rootOptions struct {
	configFile string
	logLevel   string
	noTraining bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "intent-cli",
		Short: "Classify farmer queries offline",
		Long: `intent-cli runs the same intent engine the workers use, built from the
configured training sources, against queries given as arguments or on stdin.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default: configs/config.yaml lookup)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level for diagnostics on stderr")
	root.PersistentFlags().BoolVar(&opts.noTraining, "no-training", false, "use the built-in vocabulary only")

	root.AddCommand(newDetectCmd(opts), newCorpusCmd(opts), newRecordCmd(opts), newActivitiesCmd())
	return root
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	if o.configFile != "" {
		return config.LoadFromFile(o.configFile)
	}
	return config.Load()
}

func (o *rootOptions) buildEngine(ctx context.Context, stderr io.Writer) (*intent.Engine, *config.Config, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, err
	}

	log := logger.NewZapAdapter(logger.NewWithOutput(o.logLevel, "console", "stderr"))
	if o.noTraining {
		engine := intent.NewEngine(nil,
			intent.WithScorerConfig(training.ScorerConfig(cfg.Detector)),
			intent.WithRecentResults(cfg.Detector.RecentResults),
		)
		return engine, cfg, nil
	}

	engine, report := training.NewEngine(ctx, cfg, log)
	if report.Failed > 0 {
		fmt.Fprintf(stderr, "warning: %d of %d training sources failed to load\n",
			report.Failed, len(report.Sources))
	}
	return engine, cfg, nil
}

func newDetectCmd(root *rootOptions) *cobra.Command {
	var (
		summary bool
		scores  bool
	)

	cmd := &cobra.Command{
		Use:   "detect [query...]",
		Short: "Detect intent and entities, one JSON object per query",
		Long: `With arguments, the arguments form a single query. Without, every non-blank
line of stdin is a query and all of them share one conversation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, cfg, err := root.buildEngine(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			includeScores := scores || cfg.Detector.IncludeScores

			detector := engine.NewDetector()
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetEscapeHTML(false)

			emit := func(text string) error {
				r := detector.Detect(text)
				if !includeScores {
					r.Scores = nil
				}
				return enc.Encode(r)
			}

			if len(args) > 0 {
				if err := emit(strings.Join(args, " ")); err != nil {
					return err
				}
			} else {
				scanner := bufio.NewScanner(cmd.InOrStdin())
				scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
				for scanner.Scan() {
					line := scanner.Text()
					if strings.TrimSpace(line) == "" {
						continue
					}
					if err := emit(line); err != nil {
						return err
					}
				}
				if err := scanner.Err(); err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
			}

			if summary {
				s := detector.Summary()
				if !includeScores {
					for i := range s.Recent {
						s.Recent[i].Scores = nil
					}
				}
				return enc.Encode(map[string]interface{}{"summary": s})
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&summary, "summary", false, "print the conversation summary after the results")
	cmd.Flags().BoolVar(&scores, "scores", false, "include per-intent scores")
	return cmd
}

func newCorpusCmd(root *rootOptions) *cobra.Command {
	var tokensOf string

	cmd := &cobra.Command{
		Use:   "corpus",
		Short: "Show the trigger vocabulary size per intent",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, _, err := root.buildEngine(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			corpus := engine.Corpus()
			out := cmd.OutOrStdout()

			if tokensOf != "" {
				if corpus.Size(tokensOf) == 0 {
					return fmt.Errorf("unknown intent %q", tokensOf)
				}
				for _, token := range corpus.Triggers(tokensOf) {
					fmt.Fprintln(out, token)
				}
				return nil
			}

			stats := corpus.Stats()
			labels := make([]string, 0, len(stats))
			for label := range stats {
				labels = append(labels, label)
			}
			sort.Strings(labels)

			w := bufio.NewWriter(out)
			for _, label := range labels {
				fmt.Fprintf(w, "%-20s %-18s %d\n", label, intent.CategoryFor(label), stats[label])
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&tokensOf, "tokens", "", "list the trigger tokens of one intent")
	return cmd
}

func newRecordCmd(root *rootOptions) *cobra.Command {
	var (
		sourceName string
		label      string
	)

	cmd := &cobra.Command{
		Use:   "record --source NAME --intent LABEL [query...]",
		Short: "Append labelled queries to a Redis or Elasticsearch training source",
		Long: `The arguments form one query; without arguments every non-blank line of stdin
is a query. All queries get the same intent. The source must be configured
under training.sources, may be disabled, and must be of type redis or
elasticsearch.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			src, ok := training.FindSource(cfg.Training.Sources, sourceName)
			if !ok {
				return fmt.Errorf("no training source named %q", sourceName)
			}

			var records []intent.TrainingRecord
			if len(args) > 0 {
				records = append(records, intent.TrainingRecord{Query: strings.Join(args, " "), Intent: label})
			} else {
				scanner := bufio.NewScanner(cmd.InOrStdin())
				for scanner.Scan() {
					if line := strings.TrimSpace(scanner.Text()); line != "" {
						records = append(records, intent.TrainingRecord{Query: line, Intent: label})
					}
				}
				if err := scanner.Err(); err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
			}
			if len(records) == 0 {
				return fmt.Errorf("no queries given")
			}

			if err := training.Record(cmd.Context(), cfg.Database, src, records...); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %d queries as %s in %s\n", len(records), label, src.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceName, "source", "", "training source to append to")
	cmd.Flags().StringVar(&label, "intent", "", "intent label for the queries")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("intent")
	return cmd
}

func newActivitiesCmd() *cobra.Command {
	var (
		out   string
		check string
	)

	cmd := &cobra.Command{
		Use:   "activities",
		Short: "Print or write the activity registry for the job workers",
		Long: `Without flags the registry of the detect-intent and conversation-summary
workers is printed as JSON. --out writes it to a file; --check validates an
existing registry file and reports which task types it lacks.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			current := registry.New(di.Activity(), cs.Activity())

			if check != "" {
				reg, err := registry.LoadRegistry(check)
				if err != nil {
					return err
				}
				if err := reg.Validate(); err != nil {
					return fmt.Errorf("registry validation failed: %w", err)
				}
				var missing []string
				for _, a := range current.Activities {
					if _, ok := reg.Find(a.TaskType); !ok {
						missing = append(missing, a.TaskType)
					}
				}
				if len(missing) > 0 {
					return fmt.Errorf("registry %s lacks task types: %s", check, strings.Join(missing, ", "))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Registry validation passed. Found %d activities.\n", len(reg.Activities))
				return nil
			}

			if out != "" {
				if err := current.Save(out); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d activities to %s\n", len(current.Activities), out)
				return nil
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(current)
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "write the registry to this file")
	cmd.Flags().StringVar(&check, "check", "", "validate an existing registry file")
	return cmd
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"nutrilookup"
	"nutrilookup/generator"
	"nutrilookup/lookup"
	"nutrilookup/nutrition"
	"nutrilookup/slack"
)

type result struct {
	Query string             `json:"query"`
	Foods []nutrition.Record `json:"foods,omitempty"`
	Error string             `json:"error,omitempty"`
}

type output struct {
	Results     []result `json:"results"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func main() {
	dump := flag.Bool("dump", false, "dump the parsed results to stderr")
	goalsPath := flag.String("suggest", "", "path to a JSON file of daily goals; asks for suggestions from the looked up foods")
	parallel := flag.Int("parallel", 4, "maximum concurrent lookups")
	channel := flag.String("slack-channel", "#nutrition", "Slack channel for suggestions")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] \"banana 150g\" \"2 eggs\" ...\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()

	var genConfig nutrilookup.GeneratorConfig
	if err := envdecode.Decode(&genConfig); err != nil {
		log.Fatalf("SETUP: Failed to decode: %s", err)
	}

	var svcConfig nutrilookup.ServiceConfig
	if err := envdecode.Decode(&svcConfig); err != nil {
		log.Fatalf("SETUP: Failed to decode: %s", err)
	}

	var archiveConfig nutrilookup.ArchiveConfig
	if err := envdecode.Decode(&archiveConfig); err != nil {
		log.Fatalf("SETUP: Failed to decode: %s", err)
	}

	ctx := context.Background()

	logger, cleanup, err := newExchangeLogger(archiveConfig.Dir, genConfig)
	if err != nil {
		slog.Error("SETUP: Failed to create exchange logger", "error", err)
		return
	}
	defer func() {
		if err := cleanup(); err != nil {
			slog.Error("SETUP: Failed to flush exchange log", "error", err)
		}
	}()

	gen, err := generator.New(ctx, genConfig, http.DefaultClient)
	if err != nil {
		slog.Error("SETUP: Failed to create generator", "error", err)
		return
	}

	svc := lookup.NewService(gen, logger, lookup.Options{
		Density:        svcConfig.MillilitreDensity,
		MaxSuggestions: svcConfig.MaxSuggestions,
		MaxMeals:       svcConfig.MaxMeals,
	})

	results := lookupAll(ctx, svc, flag.Args(), *parallel, genConfig.Timeout)
	out := output{Results: results}

	if *goalsPath != "" {
		suggestions, err := suggest(ctx, svc, *goalsPath, results, genConfig.Timeout)
		if err != nil {
			slog.Error("RESULT: Failed to get suggestions", "error", err)
		} else {
			out.Suggestions = suggestions
			postToSlack(ctx, *channel, suggestions)
		}
	}

	if *dump {
		nutrilookup.Dump(os.Stderr, out)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		slog.Error("RESULT: Failed to write output", "error", err)
	}
}

// lookupAll runs one lookup per query with at most limit in flight. A failed query is reported in its result.
func lookupAll(ctx context.Context, svc *lookup.Service, queries []string, limit int, timeout time.Duration) []result {
	results := make([]result, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(limit, 1))

	for i, q := range queries {
		g.Go(func() error {
			qctx, cancel := nutrilookup.WithTimeout(gctx, timeout)
			defer cancel()

			results[i].Query = q
			foods, err := svc.Lookup(qctx, q)
			if err != nil {
				slog.Error("RESULT: Lookup failed", "query", q, "error", err)
				results[i].Error = err.Error()
				return nil
			}
			results[i].Foods = foods
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// suggest totals the best match of every successful lookup and compares it against the goals file.
func suggest(ctx context.Context, svc *lookup.Service, goalsPath string, results []result, timeout time.Duration) ([]string, error) {
	data, err := os.ReadFile(goalsPath)
	if err != nil {
		return nil, fmt.Errorf("read goals: %w", err)
	}
	var goals map[string]float64
	if err := json.Unmarshal(data, &goals); err != nil {
		return nil, fmt.Errorf("parse goals: %w", err)
	}

	meals := make([]nutrition.Record, 0, len(results))
	for _, r := range results {
		if len(r.Foods) > 0 {
			meals = append(meals, r.Foods[0])
		}
	}
	if len(meals) == 0 {
		return nil, errors.New("no successful lookups to compare")
	}

	sctx, cancel := nutrilookup.WithTimeout(ctx, timeout)
	defer cancel()

	return svc.Suggest(sctx, lookup.SuggestRequest{
		Totals: nutrition.Totals(meals),
		Goals:  goals,
		Meals:  meals,
	})
}

func postToSlack(ctx context.Context, channel string, suggestions []string) {
	webhook := os.Getenv("SLACK_WEBHOOK_URL")
	if webhook == "" {
		return
	}
	client := slack.NewClient(webhook, http.DefaultClient)
	title := "Nutrition suggestions for " + time.Now().Format("Mon Jan 2")
	if err := slack.PostSuggestions(ctx, client, channel, title, suggestions); err != nil {
		slog.Error("RESULT: Failed to post suggestions to Slack", "error", err)
	}
}

func newExchangeLogger(dir string, cfg nutrilookup.GeneratorConfig) (nutrilookup.ExchangeLogger, func() error, error) {
	model := cfg.ModelID
	if model == "" {
		model = cfg.Backend
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, func() error { return err }, fmt.Errorf("failed to create log dir: %w", err)
	}

	logFilePath := filepath.Join(dir, nutrilookup.NewExchangeLogKey(model))
	logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, func() error { return err }, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := nutrilookup.NewFileExchangeLogger(logFile)
	cleanup := func() error {
		return errors.Join(logger.Flush(), logFile.Close())
	}
	return logger, cleanup, nil
}

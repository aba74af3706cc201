package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/eshaffer321/wealth-go/internal/logging"
	"github.com/eshaffer321/wealth-go/internal/render"
	"github.com/eshaffer321/wealth-go/pkg/wealth"
)

func main() {
	_ = godotenv.Load()

	configLocation := flag.String("config", "", "path to configuration file (default ./wealth.yaml)")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	scopeFlag := flag.String("scope", "", "month, quarter, year or custom")
	dateFlag := flag.String("date", "", "anchor date YYYY-MM-DD (default today)")
	fromFlag := flag.String("from", "", "custom range start YYYY-MM-DD")
	toFlag := flag.String("to", "", "custom range end YYYY-MM-DD")
	steps := flag.Int("nav", 0, "move the window by n steps; negative goes back")
	typeFlag := flag.String("type", "", "income or expense")
	compare := flag.Bool("compare", false, "compare with the previous window")
	chartPath := flag.String("chart", "", "write a segment chart PNG to this path")
	asJSON := flag.Bool("json", false, "print stats as JSON")
	flag.Parse()

	conf, err := LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := run(conf, logger, flagValues{
		scope:   *scopeFlag,
		date:    *dateFlag,
		from:    *fromFlag,
		to:      *toFlag,
		steps:   *steps,
		flow:    *typeFlag,
		compare: *compare,
		chart:   *chartPath,
		json:    *asJSON,
	}); err != nil {
		logger.Error("report failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

type flagValues struct {
	scope, date, from, to string
	steps                 int
	flow                  string
	compare               bool
	chart                 string
	json                  bool
}

// request merges flags over the configured report defaults
func (f flagValues) request(conf *Config, now time.Time) (reportRequest, error) {
	req := reportRequest{
		Date:    now,
		Steps:   f.steps,
		Compare: conf.Report.Compare || f.compare,
	}

	scope := conf.Report.Scope
	if f.scope != "" {
		scope = f.scope
	}
	parsed, err := wealth.ParseScope(scope)
	if err != nil {
		return req, err
	}
	req.Scope = parsed

	flow := conf.Report.Type
	if f.flow != "" {
		flow = f.flow
	}
	req.Type = wealth.FlowType(flow)
	if !req.Type.Valid() {
		return req, &wealth.ValidationError{Field: "type", Message: "must be income or expense", Value: flow}
	}

	for _, d := range []struct {
		raw    string
		target *time.Time
	}{
		{f.date, &req.Date},
		{f.from, &req.From},
		{f.to, &req.To},
	} {
		if d.raw == "" {
			continue
		}
		parsed, err := wealth.ParseDate(d.raw)
		if err != nil {
			return req, err
		}
		*d.target = parsed
	}

	if !req.From.IsZero() && f.scope == "" {
		req.Scope = wealth.ScopeCustom
	}

	return req, nil
}

func run(conf *Config, logger *zap.Logger, flags flagValues) error {
	req, err := flags.request(conf, time.Now())
	if err != nil {
		return err
	}

	wlog := logging.NewAdapter(logger)
	client, err := wealth.NewClient(conf.ClientOptions(wlog))
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := buildReport(ctx, client.Categories, req, wlog)
	if err != nil {
		return err
	}

	if flags.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result.Stats); err != nil {
			return err
		}
	} else if err := writeReport(os.Stdout, result); err != nil {
		return err
	}

	chart := conf.Report.Chart
	if flags.chart != "" {
		chart = flags.chart
	}
	if chart == "" {
		return nil
	}

	img, err := render.StackedBarPNG(render.StatsBars(result.Stats), render.Options{Title: result.Range.Label()})
	if err != nil {
		return err
	}
	if err := os.WriteFile(chart, img, 0644); err != nil {
		return err
	}
	logger.Info("chart written", zap.String("path", chart))
	return nil
}

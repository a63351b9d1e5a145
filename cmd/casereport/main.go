// Command casereport renders a case report or workflow summary PDF from a
// settings document.
//
//	casereport -config case.json [-report CaseReport] [-out report.pdf]
//	           [-app-config casereport.yaml] [-publish] [-log-level debug]
//
// Attachments named by the settings are embedded in the PDF, and each
// thumbnail links to its attachment. With publishing enabled the finished
// file is uploaded to S3. Settings errors exit 1 before anything is
// written.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/lvillar/casereport/config"
	"github.com/lvillar/casereport/logger"
	"github.com/lvillar/casereport/publish"
	"github.com/lvillar/casereport/report"
	"github.com/lvillar/casereport/settings"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	report    string
	settings  string
	out       string
	appConfig string
	publish   bool
	logLevel  string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("casereport", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.report, "report", string(settings.KindCase), "report to generate: CaseReport or WorkflowSummaryReport")
	fs.StringVar(&o.settings, "config", "", "settings file (JSON or YAML)")
	fs.StringVar(&o.out, "out", "", "output path; overrides the Filename setting")
	fs.StringVar(&o.appConfig, "app-config", "", "tool configuration file (default ./casereport.yaml when present)")
	fs.BoolVar(&o.publish, "publish", false, "upload the finished report to S3")
	fs.StringVar(&o.logLevel, "log-level", "", "log level: debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.settings == "" {
		fs.Usage()
		return o, fmt.Errorf("-config is required")
	}
	return o, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "casereport: %v\n", err)
		return 2
	}

	cfg, err := config.Load(opts.appConfig)
	if err != nil {
		fmt.Fprintf(stderr, "casereport: %v\n", err)
		return 1
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.publish {
		cfg.Publish.Enabled = true
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "casereport: %v\n", err)
		return 1
	}
	log, err := logger.New(cfg.Log.Logger())
	if err != nil {
		fmt.Fprintf(stderr, "casereport: %v\n", err)
		return 1
	}
	defer log.Sync()

	kind, err := report.Lookup(opts.report)
	if err != nil {
		fmt.Fprintf(stderr, "casereport: %v\n", err)
		return 1
	}
	s, err := settings.Load(opts.settings, kind)
	if err != nil {
		fmt.Fprintf(stderr, "casereport: %v\n", err)
		return 1
	}

	a := report.New(
		report.WithLogger(log),
		report.WithCompression(cfg.Render.Compress),
		report.WithCreator(cfg.Render.Creator),
		report.WithMaxImageDimension(cfg.Render.MaxImageDimension),
	)
	res, err := a.GenerateTo(s, opts.out)
	if err != nil {
		fmt.Fprintf(stderr, "casereport: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, res.Path)

	if !cfg.Publish.Enabled {
		return 0
	}
	p, err := publish.New(ctx, cfg.Publish, publish.WithLogger(log))
	if err != nil {
		fmt.Fprintf(stderr, "casereport: %v\n", err)
		return 1
	}
	loc, err := p.Publish(ctx, res.Path, map[string]string{
		"run-id": res.RunID,
		"report": string(res.Kind),
	})
	if err != nil {
		log.Error("publish failed", zap.String("path", res.Path), zap.Error(err))
		fmt.Fprintf(stderr, "casereport: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, loc.URI())
	return 0
}

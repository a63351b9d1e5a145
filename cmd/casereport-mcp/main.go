// Command casereport-mcp is an MCP (Model Context Protocol) server that
// generates and inspects case reports over stdio.
//
// # Installation
//
//	go install github.com/lvillar/casereport/cmd/casereport-mcp@latest
//
// # Available Tools
//
//   - generate_report: render a report from a settings object or file
//   - validate_settings: check settings without rendering
//   - inspect_report: list pages, embedded files and link scripts
//
// # Available Resources
//
//   - report://summary?path=... : plain text summary of a report
//
// Logs go to stderr unless the tool configuration names a file; stdout
// carries the protocol.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/lvillar/casereport/config"
	"github.com/lvillar/casereport/logger"
	"github.com/lvillar/casereport/mcp"
	"github.com/lvillar/casereport/report"
)

func main() {
	appConfig := flag.String("app-config", "", "tool configuration file (default ./casereport.yaml when present)")
	flag.Parse()

	cfg, err := config.Load(*appConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "casereport-mcp: %v\n", err)
		os.Exit(1)
	}
	if strings.EqualFold(cfg.Log.Output, "stdout") {
		cfg.Log.Output = "stderr"
	}
	log, err := logger.New(cfg.Log.Logger())
	if err != nil {
		fmt.Fprintf(os.Stderr, "casereport-mcp: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	server := mcp.NewServer(
		mcp.WithLogger(log),
		mcp.WithAssembler(report.New(
			report.WithLogger(log),
			report.WithCompression(cfg.Render.Compress),
			report.WithCreator(cfg.Render.Creator),
			report.WithMaxImageDimension(cfg.Render.MaxImageDimension),
		)),
	)
	mcp.RegisterDefaultTools(server)
	mcp.RegisterDefaultResources(server)

	if err := server.Run(); err != nil {
		log.Sync()
		fmt.Fprintf(os.Stderr, "casereport-mcp: %v\n", err)
		os.Exit(1)
	}
}

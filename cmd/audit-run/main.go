package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mkoecher/audit-cockpit/internal/audit"
	"github.com/mkoecher/audit-cockpit/internal/common"
	"github.com/mkoecher/audit-cockpit/internal/extract"
	"github.com/mkoecher/audit-cockpit/internal/pricelist"
	"github.com/mkoecher/audit-cockpit/internal/report"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	// Parse CLI flags
	var (
		invoicePath  = flag.String("invoice", "", "invoice PDF path (required)")
		deliveryList = flag.String("delivery", "", "comma-separated delivery-note PDF paths")
		csvOut       = flag.String("csv", "", "output CSV path (optional)")
		pdfOut       = flag.String("pdf", "", "output PDF report path (optional)")
	)
	flag.Parse()

	if *invoicePath == "" {
		printError("Error: --invoice is required\n")
		os.Exit(1)
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()
	cfg := common.LoadConfig()

	invoice, err := os.ReadFile(*invoicePath)
	if err != nil {
		printError("Error: reading invoice: %v\n", err)
		os.Exit(1)
	}
	var delivery [][]byte
	for _, path := range strings.Split(*deliveryList, ",") {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			printError("Error: reading delivery note %s: %v\n", path, err)
			os.Exit(1)
		}
		delivery = append(delivery, data)
	}

	extractor := extract.NewPDFExtractor(logger)
	prices := pricelist.NewLoader(cfg.Upload.PriceListMaxRows, logger)
	svc := audit.NewService(extractor, prices, nil, nil, logger)

	res, err := svc.Run(ctx, invoice, delivery)
	if err != nil {
		printError("Error: audit failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Positionen: %d  Kritisch: %d  Risiko: %s EUR\n",
		res.Summary.TotalItems, res.Summary.CriticalCount, res.Summary.RiskTotal.StringFixed(2))

	if *csvOut != "" {
		data, err := report.WriteCSV(res.Items)
		if err != nil {
			printError("Error: rendering csv: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*csvOut, data, 0o644); err != nil {
			printError("Error: writing %s: %v\n", *csvOut, err)
			os.Exit(1)
		}
	}
	if *pdfOut != "" {
		data, err := report.WritePDF(res.Items, res.Summary)
		if err != nil {
			printError("Error: rendering pdf: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*pdfOut, data, 0o644); err != nil {
			printError("Error: writing %s: %v\n", *pdfOut, err)
			os.Exit(1)
		}
	}
}

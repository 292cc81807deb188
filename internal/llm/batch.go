package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DashboardEntry is one counter shown on the LLM audit dashboard.
type DashboardEntry struct {
	Category    string `json:"category"`
	Count       int    `json:"count"`
	Description string `json:"description"`
}

// AuditResult is the assembled output of one batched run.
type AuditResult struct {
	Summary   string           `json:"summary"`
	Reasoning string           `json:"detailed_reasoning"`
	CSV       string           `json:"csv_data"`
	Findings  []Finding        `json:"findings"`
	Dashboard []DashboardEntry `json:"dashboard"`
}

// Runner fans batches out to the auditor with bounded concurrency and
// reassembles the rows in original batch order, so the final output is
// deterministic regardless of completion order.
type Runner struct {
	auditor    BatchAuditor
	batchPages int
	workers    int
	log        *slog.Logger
}

func NewRunner(auditor BatchAuditor, batchPages, workers int, log *slog.Logger) *Runner {
	if batchPages <= 0 {
		batchPages = 2
	}
	if workers <= 0 {
		workers = 5
	}
	if log == nil {
		log = slog.Default()
	}
	return &Runner{auditor: auditor, batchPages: batchPages, workers: workers, log: log}
}

// Run submits every batch, waits for all of them, and concatenates the rows.
// A failed batch contributes nothing; it never aborts its siblings.
func (r *Runner) Run(ctx context.Context, req AuditRequest) AuditResult {
	runID := uuid.New().String()
	start := time.Now()

	batches := chunkPages(req.Pages, r.batchPages)
	total := len(batches)
	r.log.Info("llm.audit.start",
		"run_id", runID,
		"pages", len(req.Pages),
		"batches", total,
		"workers", r.workers,
	)

	results := make([][]string, total)
	jobs := make(chan int)

	var wg sync.WaitGroup
	workers := r.workers
	if workers > total {
		workers = total
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				rows, err := r.auditor.AuditBatch(ctx, BatchRequest{
					Pages:              batches[idx],
					BatchIndex:         idx,
					TotalBatches:       total,
					PriceListCSV:       req.PriceListCSV,
					DeliveryNoteText:   req.DeliveryNoteText,
					CustomInstructions: req.CustomInstructions,
					Deployment:         req.Deployment,
				})
				if err != nil {
					r.log.Error("llm.audit.batch_failed", "run_id", runID, "batch", idx, "error", err)
					continue
				}
				results[idx] = rows
			}
		}()
	}
	for idx := range batches {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	// Re-linearize by original batch index.
	var allRows []string
	for _, rows := range results {
		allRows = append(allRows, rows...)
	}

	findings := ParseFindings(allRows)
	deviations := 0
	for _, row := range allRows {
		if !strings.Contains(row, "OK") {
			deviations++
		}
	}

	r.log.Info("llm.audit.done",
		"run_id", runID,
		"rows", len(allRows),
		"deviations", deviations,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	return AuditResult{
		Summary:   "Parallel batch analysis complete.",
		Reasoning: summaryLine(len(req.Pages), total, len(allRows)),
		CSV:       CSVHeader + "\n" + strings.Join(allRows, "\n"),
		Findings:  findings,
		Dashboard: []DashboardEntry{
			{Category: "GESAMT POSITIONEN", Count: len(allRows), Description: "Alle geprüften Zeilen"},
			{Category: "ABWEICHUNGEN", Count: deviations, Description: "Alle Fehlerarten"},
			{Category: "ÜBEREINSTIMMUNG", Count: len(allRows) - deviations, Description: "Korrekte Positionen"},
		},
	}
}

// ParseFindings converts raw semicolon rows into structured findings. Short
// rows are padded, blank rows skipped; a malformed row never fails the run.
func ParseFindings(rows []string) []Finding {
	findings := make([]Finding, 0, len(rows))
	for _, row := range rows {
		if strings.TrimSpace(row) == "" {
			continue
		}
		cols := strings.Split(row, ";")
		for len(cols) < 8 {
			cols = append(cols, "")
		}
		findings = append(findings, Finding{
			Status:          strings.TrimSpace(cols[0]),
			DeliveryNoteRef: strings.TrimSpace(cols[1]),
			ArticleNumber:   strings.TrimSpace(cols[2]),
			Description:     strings.TrimSpace(cols[3]),
			QtyInvoiced:     strings.TrimSpace(cols[4]),
			QtyDelivered:    strings.TrimSpace(cols[5]),
			PriceInvoiced:   strings.TrimSpace(cols[6]),
			PriceExpected:   strings.TrimSpace(cols[7]),
		})
	}
	return findings
}

func chunkPages(pages []string, size int) [][]string {
	var batches [][]string
	for i := 0; i < len(pages); i += size {
		end := i + size
		if end > len(pages) {
			end = len(pages)
		}
		batches = append(batches, pages[i:end])
	}
	return batches
}

func summaryLine(pages, batches, rows int) string {
	return fmt.Sprintf("Processed %d pages in %d parallel batches. Found %d line items.", pages, batches, rows)
}

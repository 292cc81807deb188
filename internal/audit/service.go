package audit

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/mkoecher/audit-cockpit/constants"
	"github.com/mkoecher/audit-cockpit/internal/archive"
	"github.com/mkoecher/audit-cockpit/internal/common"
	"github.com/mkoecher/audit-cockpit/internal/extract"
	"github.com/mkoecher/audit-cockpit/internal/llm"
	"github.com/mkoecher/audit-cockpit/internal/parse"
	"github.com/mkoecher/audit-cockpit/internal/pricelist"
	"github.com/mkoecher/audit-cockpit/internal/reconcile"
	"github.com/mkoecher/audit-cockpit/internal/report"
)

// Result is one complete audit run. The server owns exactly one of these at a
// time; a new run replaces it wholesale.
type Result struct {
	RunID            uuid.UUID               `json:"run_id"`
	StartedAt        time.Time               `json:"started_at"`
	FinishedAt       time.Time               `json:"finished_at"`
	Items            []reconcile.MatchedItem `json:"items"`
	Summary          reconcile.Summary       `json:"summary"`
	EvidenceSupplied bool                    `json:"evidence_supplied"`
	// EvidenceRefs are the eight-digit reference numbers found in the
	// delivery-note text, an alternative signal next to substring matching.
	EvidenceRefs []string `json:"evidence_refs,omitempty"`
}

// Service orchestrates extract -> parse -> match -> aggregate and the
// optional LLM cross-check.
type Service struct {
	extractor extract.TextExtractor
	parser    *parse.Parser
	prices    *pricelist.Loader
	runner    *llm.Runner // nil when LLM credentials are absent
	runs      *archive.Store
	log       *slog.Logger
}

func NewService(ex extract.TextExtractor, prices *pricelist.Loader, runner *llm.Runner, runs *archive.Store, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		extractor: ex,
		parser:    parse.NewParser(),
		prices:    prices,
		runner:    runner,
		runs:      runs,
		log:       log,
	}
}

// Run executes the deterministic audit path over one invoice and zero or more
// delivery notes.
func (s *Service) Run(ctx context.Context, invoice []byte, deliveryNotes [][]byte) (*Result, error) {
	runID := uuid.New()
	started := time.Now()
	s.log.Info("audit.run.start", "run_id", runID.String(), "delivery_notes", len(deliveryNotes))

	pages := s.extractor.Pages(invoice)
	items := s.parser.ParseInvoice(pages)
	if len(items) == 0 {
		s.log.Warn("audit.run.no_items", "run_id", runID.String(), "pages", len(pages))
		return nil, common.NewAppError("PARSE_EMPTY", "no line items recognized in invoice", common.ErrInvalidInput)
	}
	s.log.Info("audit.run.parsed", "run_id", runID.String(), "items", len(items), "pages", len(pages))

	ev := reconcile.Evidence{Supplied: len(deliveryNotes) > 0}
	for _, note := range deliveryNotes {
		ev.Text += s.extractor.Text(note)
	}

	matched := reconcile.Match(items, ev)
	summary := reconcile.Summarize(matched)

	result := &Result{
		RunID:            runID,
		StartedAt:        started,
		FinishedAt:       time.Now(),
		Items:            matched,
		Summary:          summary,
		EvidenceSupplied: ev.Supplied,
		EvidenceRefs:     sortedRefs(s.parser.ExtractReferenceNumbers(ev.Text)),
	}

	s.archiveRun(ctx, result)

	s.log.Info("audit.run.done",
		"run_id", runID.String(),
		"items", summary.TotalItems,
		"critical", summary.CriticalCount,
		"risk_total", summary.RiskTotal.StringFixed(2),
		"elapsed_ms", time.Since(started).Milliseconds(),
	)
	return result, nil
}

// CrossCheck executes the LLM batch audit path.
func (s *Service) CrossCheck(ctx context.Context, invoice []byte, deliveryNotes [][]byte, priceLists [][]byte, instructions, deployment string) (llm.AuditResult, error) {
	if s.runner == nil {
		return llm.AuditResult{}, common.NewAppError("LLM_DISABLED", "llm audit path is not configured", common.ErrLLMUnavailable)
	}

	pages := s.extractor.Pages(invoice)
	if len(pages) == 0 {
		return llm.AuditResult{}, common.NewAppError("PARSE_EMPTY", "no pages extracted from invoice", common.ErrInvalidInput)
	}

	var deliveryText string
	for _, note := range deliveryNotes {
		deliveryText += s.extractor.Text(note)
	}

	var priceCSV string
	for _, pl := range priceLists {
		csv, err := s.prices.LoadCSV(pl)
		if err != nil {
			return llm.AuditResult{}, common.NewAppError("PRICELIST_ERROR", "reading price list", fmt.Errorf("%w: %w", common.ErrInvalidInput, err))
		}
		priceCSV += csv
	}

	return s.runner.Run(ctx, llm.AuditRequest{
		Pages:              pages,
		PriceListCSV:       priceCSV,
		DeliveryNoteText:   deliveryText,
		CustomInstructions: instructions,
		Deployment:         deployment,
	}), nil
}

// archiveRun persists the run for the history view. Archive trouble is logged
// and swallowed; the audit result still reaches the user.
func (s *Service) archiveRun(ctx context.Context, res *Result) {
	if s.runs == nil {
		return
	}
	csvDump, err := report.WriteCSV(res.Items)
	if err != nil {
		s.log.Error("audit.archive.csv_failed", "run_id", res.RunID.String(), "error", err)
		csvDump = nil
	}
	rec := archive.Run{
		ID:            res.RunID,
		StartedAt:     res.StartedAt,
		FinishedAt:    res.FinishedAt,
		TotalItems:    res.Summary.TotalItems,
		CriticalCount: res.Summary.CriticalCount,
		RiskTotal:     res.Summary.RiskTotal.StringFixed(2),
		Status:        constants.RunStatusMatched,
		CSV:           string(csvDump),
	}
	if err := s.runs.SaveRun(ctx, rec); err != nil {
		s.log.Error("audit.archive.save_failed", "run_id", res.RunID.String(), "error", err)
	}
}

func sortedRefs(refs map[string]struct{}) []string {
	if len(refs) == 0 {
		return nil
	}
	out := make([]string, 0, len(refs))
	for ref := range refs {
		out = append(out, ref)
	}
	sort.Strings(out)
	return out
}

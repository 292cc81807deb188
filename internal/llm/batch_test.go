package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeAuditor labels each row with its batch index and can be told to delay
// or fail particular batches.
type fakeAuditor struct {
	mu      sync.Mutex
	calls   []int
	delays  map[int]time.Duration
	failing map[int]bool
}

func (f *fakeAuditor) AuditBatch(_ context.Context, req BatchRequest) ([]string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req.BatchIndex)
	f.mu.Unlock()

	if d, ok := f.delays[req.BatchIndex]; ok {
		time.Sleep(d)
	}
	if f.failing[req.BatchIndex] {
		return nil, fmt.Errorf("batch %d refused", req.BatchIndex)
	}
	var rows []string
	for p := range req.Pages {
		rows = append(rows, fmt.Sprintf("OK;ref;art-%d-%d;desc;1;1;1,00;1,00", req.BatchIndex, p))
	}
	return rows, nil
}

// TestRunner_OrderIsDeterministic: later batches finishing first must not
// change the row order of the assembled CSV.
func TestRunner_OrderIsDeterministic(t *testing.T) {
	auditor := &fakeAuditor{delays: map[int]time.Duration{
		0: 30 * time.Millisecond,
		1: 10 * time.Millisecond,
	}}
	r := NewRunner(auditor, 2, 3, nil)

	res := r.Run(context.Background(), AuditRequest{
		Pages: []string{"p0", "p1", "p2", "p3", "p4"},
	})

	lines := strings.Split(res.CSV, "\n")
	if lines[0] != CSVHeader {
		t.Fatalf("first line = %q, want header", lines[0])
	}
	rows := lines[1:]
	want := []string{"art-0-0", "art-0-1", "art-1-0", "art-1-1", "art-2-0"}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d: %v", len(rows), len(want), rows)
	}
	for i, marker := range want {
		if !strings.Contains(rows[i], marker) {
			t.Errorf("row %d = %q, want marker %q", i, rows[i], marker)
		}
	}
}

// TestRunner_FailedBatchIsolated: a failing batch drops its own rows only.
func TestRunner_FailedBatchIsolated(t *testing.T) {
	auditor := &fakeAuditor{failing: map[int]bool{1: true}}
	r := NewRunner(auditor, 1, 2, nil)

	res := r.Run(context.Background(), AuditRequest{Pages: []string{"p0", "p1", "p2"}})

	if len(res.Findings) != 2 {
		t.Fatalf("got %d findings, want 2: %+v", len(res.Findings), res.Findings)
	}
	for _, f := range res.Findings {
		if strings.Contains(f.ArticleNumber, "art-1-") {
			t.Errorf("row from failed batch leaked through: %+v", f)
		}
	}
}

// TestRunner_AllBatchesSubmitted: every batch reaches the auditor exactly
// once even with fewer workers than batches.
func TestRunner_AllBatchesSubmitted(t *testing.T) {
	auditor := &fakeAuditor{}
	r := NewRunner(auditor, 1, 2, nil)

	r.Run(context.Background(), AuditRequest{Pages: []string{"a", "b", "c", "d", "e"}})

	seen := make(map[int]int)
	for _, idx := range auditor.calls {
		seen[idx]++
	}
	for i := 0; i < 5; i++ {
		if seen[i] != 1 {
			t.Errorf("batch %d submitted %d times, want once", i, seen[i])
		}
	}
}

func TestRunner_DashboardCounts(t *testing.T) {
	auditor := &fakeAuditor{}
	r := NewRunner(auditor, 2, 5, nil)

	res := r.Run(context.Background(), AuditRequest{Pages: []string{"p0", "p1", "p2"}})

	if len(res.Dashboard) != 3 {
		t.Fatalf("dashboard has %d entries, want 3", len(res.Dashboard))
	}
	if res.Dashboard[0].Count != 3 {
		t.Errorf("total positions = %d, want 3", res.Dashboard[0].Count)
	}
	if res.Dashboard[1].Count != 0 {
		t.Errorf("deviations = %d, want 0", res.Dashboard[1].Count)
	}
	if res.Dashboard[2].Count != 3 {
		t.Errorf("matches = %d, want 3", res.Dashboard[2].Count)
	}
}

func TestParseFindings(t *testing.T) {
	rows := []string{
		"NICHT GELIEFERT;23406731;867130;Plum Wine Case;10;0;9,70;9,70",
		"",
		"OK;23406731;867131",
	}
	findings := ParseFindings(rows)

	if len(findings) != 2 {
		t.Fatalf("got %d findings, want 2", len(findings))
	}
	first := findings[0]
	if first.Status != "NICHT GELIEFERT" || first.DeliveryNoteRef != "23406731" || first.QtyDelivered != "0" {
		t.Errorf("first finding mismatch: %+v", first)
	}
	// short rows padded out to the full column set
	if findings[1].PriceExpected != "" || findings[1].ArticleNumber != "867131" {
		t.Errorf("padded finding mismatch: %+v", findings[1])
	}
}

func TestChunkPages(t *testing.T) {
	batches := chunkPages([]string{"a", "b", "c", "d", "e"}, 2)
	if len(batches) != 3 {
		t.Fatalf("got %d batches, want 3", len(batches))
	}
	if len(batches[0]) != 2 || len(batches[1]) != 2 || len(batches[2]) != 1 {
		t.Errorf("batch sizes = %d/%d/%d, want 2/2/1", len(batches[0]), len(batches[1]), len(batches[2]))
	}
	if batches[2][0] != "e" {
		t.Errorf("last batch = %v, want [e]", batches[2])
	}
}

package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mkoecher/audit-cockpit/internal/llm"
)

// AuditBatch implements llm.BatchAuditor against Azure OpenAI
// chat/completions. The response must be JSON holding a single csv_data
// string, which we validate against the schema before splitting into rows.
func (c *Client) AuditBatch(ctx context.Context, req llm.BatchRequest) ([]string, error) {
	rid := uuid.New().String()
	start := time.Now()

	deployment := req.Deployment
	if deployment == "" {
		deployment = c.cfg.Deployment
	}

	c.logger.Info("llm.batch.start",
		"req_id", rid,
		"deployment", deployment,
		"batch", req.BatchIndex,
		"total_batches", req.TotalBatches,
		"pages", len(req.Pages),
	)

	body := map[string]any{
		"messages": []map[string]any{
			{"role": "system", "content": llm.BuildSystemPrompt()},
			{"role": "user", "content": llm.BuildUserPrompt(req)},
		},
		"response_format":       map[string]any{"type": "json_object"},
		"max_completion_tokens": c.cfg.MaxTokens,
	}

	raw, err := c.post(ctx, c.chatURL(deployment), body)
	if err != nil {
		c.logger.Error("llm.batch.http_error",
			"req_id", rid, "batch", req.BatchIndex, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.logger.Error("llm.batch.decode_error",
			"req_id", rid, "batch", req.BatchIndex, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("decode azure response: %w", err)
	}
	if len(cc.Choices) == 0 {
		c.logger.Error("llm.batch.no_choices",
			"req_id", rid, "batch", req.BatchIndex,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("no choices in azure response")
	}

	payload := extractJSONObject(cc.Choices[0].Message.Content)
	if payload == "" {
		return nil, fmt.Errorf("no json object in model content")
	}
	if err := llm.ValidateJSONAgainstSchema(llm.BuildAuditJSONSchema(), []byte(payload)); err != nil {
		c.logger.Error("llm.batch.schema_validation_failed",
			"req_id", rid, "batch", req.BatchIndex, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var out struct {
		CSVData string `json:"csv_data"`
	}
	if err := json.Unmarshal([]byte(payload), &out); err != nil {
		return nil, fmt.Errorf("unmarshal csv_data: %w", err)
	}

	rows := splitRows(out.CSVData)
	c.logger.Info("llm.batch.ok",
		"req_id", rid,
		"batch", req.BatchIndex,
		"rows", len(rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return rows, nil
}

func (c *Client) chatURL(deployment string) string {
	base := strings.TrimRight(c.cfg.Endpoint, "/")
	return base + "/openai/deployments/" + url.PathEscape(deployment) +
		"/chat/completions?api-version=" + url.QueryEscape(c.cfg.APIVersion)
}

func (c *Client) post(ctx context.Context, endpoint string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("api-key", c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("azure http error: %w", err)
	}
	defer func(Body io.ReadCloser) {
		if cerr := Body.Close(); cerr != nil {
			c.logger.Warn("azure response body close error", "error", cerr)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("azure status %d: %s", resp.StatusCode, string(raw))
	}
	return raw, nil
}

// extractJSONObject pulls the first-to-last-brace slice out of the content,
// tolerating models that wrap the JSON in prose or code fences.
func extractJSONObject(content string) string {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return content[start : end+1]
}

// splitRows breaks csv_data into rows, dropping blanks and any header row the
// model produced despite instructions.
func splitRows(csvData string) []string {
	var rows []string
	for _, row := range strings.Split(strings.TrimSpace(csvData), "\n") {
		row = strings.TrimSpace(row)
		if row == "" || strings.Contains(row, "Handlung") {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

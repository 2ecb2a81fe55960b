package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/legalintel/legal-intel/internal/common"
	"github.com/legalintel/legal-intel/internal/llm"
	"github.com/legalintel/legal-intel/internal/metadata"
)

// Extract implements metadata.Extractor using text-only chat/completions.
// The response is validated strictly against the metadata schema and then
// run through the enhancement pass; any failure on the way invalidates the
// whole extraction (the coordinator handles the fallback).
func (c *Client) Extract(ctx context.Context, text, filename string) (*metadata.Fields, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"text_len", len(text),
		"filename", filename,
	)

	schema := llm.BuildMetadataJSONSchema()
	content, err := c.complete(ctx, llm.BuildUserPrompt(filename, text), schema)
	if err != nil {
		c.log.Error("llm.extract.failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("%w: %v", common.ErrAIService, err)
	}

	if err := llm.ValidateJSONAgainstSchema(schema, content); err != nil {
		c.log.Error("llm.extract.schema_validation_failed",
			"req_id", rid, "error", err, "content", string(content),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	fields, err := llm.EnhanceResponse(content)
	if err != nil {
		c.log.Error("llm.extract.enhance_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	c.log.Info("llm.extract.ok",
		"req_id", rid,
		"confidence", fields.Confidence,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return fields, nil
}

// ExtractBatch sends several documents in one round trip. The batch is
// all-or-nothing: a malformed response invalidates every document in it.
func (c *Client) ExtractBatch(ctx context.Context, docs []llm.BatchDocument) ([]*metadata.Fields, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("llm.batch.start",
		"req_id", rid, "model", c.cfg.Model, "documents", len(docs))

	schema := llm.BuildBatchJSONSchema()
	content, err := c.complete(ctx, llm.BuildBatchUserPrompt(docs), schema)
	if err != nil {
		c.log.Error("llm.batch.failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("%w: %v", common.ErrAIService, err)
	}

	if err := llm.ValidateJSONAgainstSchema(schema, content); err != nil {
		c.log.Error("llm.batch.schema_validation_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	var envelope struct {
		Documents []json.RawMessage `json:"documents"`
	}
	if err := json.Unmarshal(content, &envelope); err != nil {
		return nil, fmt.Errorf("%w: decode batch envelope: %v", common.ErrValidation, err)
	}
	if len(envelope.Documents) != len(docs) {
		return nil, fmt.Errorf("%w: batch returned %d results for %d documents",
			common.ErrValidation, len(envelope.Documents), len(docs))
	}

	results := make([]*metadata.Fields, 0, len(docs))
	for i, raw := range envelope.Documents {
		fields, err := llm.EnhanceResponse(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: document %d (%s): %v",
				common.ErrValidation, i, docs[i].Filename, err)
		}
		results = append(results, fields)
	}

	c.log.Info("llm.batch.ok",
		"req_id", rid, "documents", len(results),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return results, nil
}

// complete posts one chat completion and returns the message content.
func (c *Client) complete(ctx context.Context, userPrompt string, schema map[string]any) ([]byte, error) {
	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": llm.BuildSystemPrompt()},
			{"role": "user", "content": userPrompt + "\n\nReturn ONLY JSON that matches the provided schema."},
			{"role": "system", "content": "JSON Schema:\n" + mustJSON(schema)},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	raw, err := c.post(ctx, endpoint, body)
	if err != nil {
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
		return nil, fmt.Errorf("decode openai response: %w", err)
	}
	if len(cc.Choices) == 0 {
		return nil, fmt.Errorf("no choices in openai response")
	}
	return []byte(strings.TrimSpace(cc.Choices[0].Message.Content)), nil
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai http error: %w", err)
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			c.log.Warn("openai response body close error", "error", err)
		}
	}(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		buf := new(bytes.Buffer)
		_, _ = buf.ReadFrom(resp.Body)
		return nil, fmt.Errorf("openai status %d: %s", resp.StatusCode, buf.String())
	}

	buf := new(bytes.Buffer)
	_, _ = buf.ReadFrom(resp.Body)
	return buf.Bytes(), nil
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

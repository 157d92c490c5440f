// Package extractive implements a reader backed by a remote extractive
// question-answering model served with the Hugging Face inference API
// contract: POST {"inputs":{"question","context"}} returning scored spans.
package extractive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/qabench/internal/core/domain"
	"github.com/custodia-labs/qabench/internal/core/ports/driven"
)

// Ensure Reader implements the interface.
var _ driven.Reader = (*Reader)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api-inference.huggingface.co/models"
	DefaultModel   = "deepset/roberta-base-squad2"
	DefaultTimeout = 60 * time.Second
)

// Config holds configuration for the extractive reader.
type Config struct {
	// BaseURL is the inference API root; the model path is appended.
	BaseURL string

	// Model is the model repository id.
	Model string

	// APIKey is sent as a bearer token when set.
	APIKey string

	// Timeout is the per-request timeout.
	Timeout time.Duration
}

// Reader sends one inference request per passage.
type Reader struct {
	client  *http.Client
	baseURL string
	model   string
	apiKey  string
}

type qaRequest struct {
	Inputs     qaInputs     `json:"inputs"`
	Parameters qaParameters `json:"parameters"`
}

type qaInputs struct {
	Question string `json:"question"`
	Context  string `json:"context"`
}

type qaParameters struct {
	TopK                 int  `json:"top_k"`
	HandleImpossibleAnsw bool `json:"handle_impossible_answer"`
}

type qaSpan struct {
	Score  float64 `json:"score"`
	Start  int     `json:"start"`
	End    int     `json:"end"`
	Answer string  `json:"answer"`
}

// New creates an extractive reader.
func New(cfg Config) *Reader {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Reader{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		apiKey:  cfg.APIKey,
	}
}

// ModelName returns the model repository id.
func (r *Reader) ModelName() string {
	return r.model
}

// Close releases resources.
func (r *Reader) Close() error {
	return nil
}

// Read asks the model for spans in every passage and keeps the topK most
// probable non-empty answers.
func (r *Reader) Read(ctx context.Context, question string, passages []domain.ScoredPassage, topK int) ([]domain.AnswerResult, error) {
	if topK <= 0 {
		return nil, nil
	}

	var results []domain.AnswerResult
	for _, p := range passages {
		spans, err := r.infer(ctx, question, p.Passage.Text, topK)
		if err != nil {
			return nil, fmt.Errorf("passage %s: %w", p.Passage.ID, err)
		}
		for _, s := range spans {
			text := strings.TrimSpace(s.Answer)
			if text == "" {
				continue
			}
			results = append(results, domain.AnswerResult{
				Text:        text,
				Probability: s.Score,
				Score:       Logit(s.Score),
				Context:     p.Passage.Text,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Probability > results[j].Probability })
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// infer runs one question/context pair through the model.
func (r *Reader) infer(ctx context.Context, question, passage string, topK int) ([]qaSpan, error) {
	body, err := json.Marshal(qaRequest{
		Inputs:     qaInputs{Question: question, Context: passage},
		Parameters: qaParameters{TopK: topK, HandleImpossibleAnsw: true},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/"+r.model, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inference error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	return decodeSpans(data)
}

// decodeSpans accepts a single span object or a list of spans.
func decodeSpans(data []byte) ([]qaSpan, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var spans []qaSpan
		if err := json.Unmarshal(trimmed, &spans); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return spans, nil
	}
	var span qaSpan
	if err := json.Unmarshal(trimmed, &span); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return []qaSpan{span}, nil
}

// Ping checks the model endpoint answers a trivial question.
func (r *Reader) Ping(ctx context.Context) error {
	_, err := r.infer(ctx, "What is this?", "This is a test.", 1)
	return err
}

// Logit maps a probability back to the scale extractive readers report
// scores on, assuming probability = sigmoid(score / 8).
func Logit(p float64) float64 {
	const eps = 1e-6
	p = math.Min(math.Max(p, eps), 1-eps)
	return 8 * math.Log(p/(1-p))
}

// Package extractor turns free-form job text into a draft job record via
// the Gemini API. Its output is best-effort and untrusted: the caller is
// expected to review and edit the draft before posting.
package extractor

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/mesaworks/smartpost/api/schemas"
	"github.com/mesaworks/smartpost/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Extractor is a single-writer handle around a lazily initialized Gemini
// client, paced by a client-side rate limiter.
type Extractor struct {
	cfg    config.ExtractorConfig
	logger *zap.Logger

	limiter *rate.Limiter

	initOnce sync.Once
	client   *genai.Client
	initErr  error
}

// NewExtractor creates an extractor; the API client is not dialed until
// the first Extract call.
func NewExtractor(cfg config.ExtractorConfig, logger *zap.Logger) *Extractor {
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 10
	}
	return &Extractor{
		cfg:     cfg,
		logger:  logger.Named("extractor"),
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1),
	}
}

func (e *Extractor) init(ctx context.Context) error {
	e.initOnce.Do(func() {
		if e.cfg.APIKey == "" {
			e.initErr = fmt.Errorf("extractor API key is not set (set SMARTPOST_GEMINI_API_KEY)")
			return
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  e.cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			e.initErr = fmt.Errorf("failed to create Gemini client: %w", err)
			return
		}
		e.client = client
	})
	return e.initErr
}

const extractionPrompt = `You are a recruiting assistant. Extract the job posting fields
from the text below and answer with ONLY a JSON object, no prose:

{
  "company_name": "...",
  "job_title": "...",
  "location": "...",
  "job_function": one of %s,
  "min_salary": integer (annual, 0 if unknown),
  "max_salary": integer (annual, 0 if unknown),
  "job_description": "...",
  "salary_breakup": "..."
}

Pick the closest job_function from the list. Use "" for unknown text fields.

Job text:
%s`

// Extract sends the raw text to the model and parses the reply into a
// draft record. Non-numeric salary values in the reply are coerced to
// zero rather than rejected; the record is a draft for human review, not
// a validated posting.
func (e *Extractor) Extract(ctx context.Context, rawText string) (*schemas.JobRecord, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, fmt.Errorf("no job text to extract from")
	}
	if err := e.init(ctx); err != nil {
		return nil, err
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter interrupted: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	functions := make([]string, len(schemas.JobFunctions))
	for i, f := range schemas.JobFunctions {
		functions[i] = strconv.Quote(string(f))
	}
	instruction := fmt.Sprintf(extractionPrompt, strings.Join(functions, " | "), rawText)

	resp, err := e.client.Models.GenerateContent(callCtx, e.cfg.Model, []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{genai.NewPartFromText(instruction)},
		},
	}, &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.2)),
	})
	if err != nil {
		return nil, fmt.Errorf("extraction request failed: %w", err)
	}

	reply := resp.Text()
	if reply == "" {
		return nil, fmt.Errorf("empty reply from model %s", e.cfg.Model)
	}

	record, err := parseDraft(cleanMarkdownFences(reply))
	if err != nil {
		return nil, fmt.Errorf("could not parse model reply: %w (reply: %s)", err, reply)
	}

	e.logger.Info("Draft record extracted.",
		zap.String("company", record.CompanyName),
		zap.String("title", record.JobTitle),
		zap.String("function", string(record.JobFunction)))
	return record, nil
}

var fencePattern = regexp.MustCompile("(?s)^\\s*```(?:json|JSON)?\\s*\\n?(.*?)\\n?\\s*```\\s*$")

// cleanMarkdownFences strips the code fences models like to wrap JSON in.
func cleanMarkdownFences(s string) string {
	s = strings.TrimSpace(s)
	if matches := fencePattern.FindStringSubmatch(s); len(matches) > 1 {
		s = matches[1]
	}
	return strings.TrimSpace(s)
}

// draft mirrors the JSON shape requested from the model. Salaries come in
// as raw values because models return them inconsistently (number, quoted
// number, or text like "competitive").
type draft struct {
	CompanyName    string      `json:"company_name"`
	JobTitle       string      `json:"job_title"`
	Location       string      `json:"location"`
	JobFunction    string      `json:"job_function"`
	MinSalary      interface{} `json:"min_salary"`
	MaxSalary      interface{} `json:"max_salary"`
	JobDescription string      `json:"job_description"`
	SalaryBreakup  string      `json:"salary_breakup"`
}

func parseDraft(reply string) (*schemas.JobRecord, error) {
	var d draft
	if err := json.Unmarshal([]byte(reply), &d); err != nil {
		return nil, err
	}

	record := &schemas.JobRecord{
		CompanyName:    strings.TrimSpace(d.CompanyName),
		JobTitle:       strings.TrimSpace(d.JobTitle),
		Location:       strings.TrimSpace(d.Location),
		JobFunction:    matchFunction(d.JobFunction),
		MinSalary:      coerceSalary(d.MinSalary),
		MaxSalary:      coerceSalary(d.MaxSalary),
		JobDescription: strings.TrimSpace(d.JobDescription),
		SalaryBreakup:  strings.TrimSpace(d.SalaryBreakup),
		AIGenerated:    true,
		CreatedAt:      time.Now(),
	}
	return record, nil
}

// matchFunction maps the model's free-text function onto the fixed set,
// falling back to the first category when nothing matches.
func matchFunction(s string) schemas.JobFunction {
	s = strings.TrimSpace(s)
	for _, f := range schemas.JobFunctions {
		if strings.EqualFold(s, string(f)) {
			return f
		}
	}
	for _, f := range schemas.JobFunctions {
		if strings.Contains(strings.ToLower(string(f)), strings.ToLower(s)) && s != "" {
			return f
		}
	}
	return schemas.JobFunctions[0]
}

// coerceSalary converts whatever the model produced into a non-negative
// integer. Anything non-numeric becomes zero; drafts are reviewed before
// posting, so a silent zero is visible to the operator.
func coerceSalary(v interface{}) int {
	switch n := v.(type) {
	case float64:
		if n < 0 {
			return 0
		}
		return int(n)
	case string:
		digits := strings.TrimSpace(n)
		parsed, err := strconv.Atoi(digits)
		if err != nil || parsed < 0 {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

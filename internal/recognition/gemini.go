package recognition

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/genai"

	"gastocerto/internal/models"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-2.0-flash"

const singlePrompt = "You read a photographed receipt, invoice or bill.\n" +
	"Return one JSON object with:\n" +
	"- \"description\": short name of the merchant or bill, in the document's language\n" +
	"- \"amount\": total paid as a positive number\n" +
	"- \"date\": payment or issue date as \"YYYY-MM-DD\"\n" +
	"Use null for any field you cannot read. Return null if the image is not a receipt."

const statementPrompt = "You read a bank or credit card statement.\n" +
	"Return a JSON array with one object per transaction line:\n" +
	"- \"description\": the line description as printed\n" +
	"- \"amount\": absolute value of the amount, always positive\n" +
	"- \"date\": the line date as \"YYYY-MM-DD\"\n" +
	"- \"type\": \"income\" for money received, \"expense\" for money spent\n" +
	"Skip balances, totals and headers. Return [] if there are no transactions."

// Generator is the subset of the genai models API used here.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiRecognizer implements Recognizer on top of Gemini structured output.
type GeminiRecognizer struct {
	gen   Generator
	model string
	today func() time.Time
}

// NewGeminiRecognizer connects to the Gemini API with apiKey.
func NewGeminiRecognizer(ctx context.Context, apiKey, model string) (*GeminiRecognizer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return NewRecognizer(client.Models, model), nil
}

// NewRecognizer builds a recognizer around an existing generator.
func NewRecognizer(gen Generator, model string) *GeminiRecognizer {
	if model == "" {
		model = DefaultModel
	}
	return &GeminiRecognizer{gen: gen, model: model, today: time.Now}
}

var singleSchema = &genai.Schema{
	Type:     genai.TypeObject,
	Nullable: genai.Ptr(true),
	Properties: map[string]*genai.Schema{
		"description": {Type: genai.TypeString, Nullable: genai.Ptr(true)},
		"amount":      {Type: genai.TypeNumber, Nullable: genai.Ptr(true)},
		"date":        {Type: genai.TypeString, Nullable: genai.Ptr(true)},
	},
}

var statementSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"description": {Type: genai.TypeString},
			"amount":      {Type: genai.TypeNumber},
			"date":        {Type: genai.TypeString},
			"type":        {Type: genai.TypeString, Enum: []string{string(models.KindIncome), string(models.KindExpense)}},
		},
		Required: []string{"description", "amount", "date", "type"},
	},
}

type rawCandidate struct {
	Description *string          `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
	Date        *string          `json:"date"`
	Type        *string          `json:"type"`
}

// RecognizeSingle implements Recognizer. The result is always a
// non-recurring expense; unreadable fields fall back to defaults.
func (r *GeminiRecognizer) RecognizeSingle(ctx context.Context, doc Document) (models.Transaction, error) {
	text, err := r.generate(ctx, singlePrompt, singleSchema, doc)
	if err != nil {
		return models.Transaction{}, err
	}

	var raw *rawCandidate
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return models.Transaction{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if raw == nil {
		return models.Transaction{}, ErrNoCandidate
	}

	c := models.Transaction{
		Description: NotFoundDescription,
		Amount:      decimal.Zero,
		Date:        models.DayOf(r.today()),
		Kind:        models.KindExpense,
	}
	if raw.Description != nil && strings.TrimSpace(*raw.Description) != "" {
		c.Description = strings.TrimSpace(*raw.Description)
	}
	if raw.Amount != nil {
		c.Amount = raw.Amount.Abs()
	}
	if raw.Date != nil {
		if d, err := models.ParseDay(*raw.Date); err == nil {
			c.Date = d
		}
	}
	return c, nil
}

// RecognizeStatement implements Recognizer. Any line that cannot be turned
// into a valid record fails the whole call.
func (r *GeminiRecognizer) RecognizeStatement(ctx context.Context, doc Document) ([]models.Transaction, error) {
	text, err := r.generate(ctx, statementPrompt, statementSchema, doc)
	if err != nil {
		return nil, err
	}

	var raws []rawCandidate
	if err := json.Unmarshal([]byte(text), &raws); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	out := make([]models.Transaction, 0, len(raws))
	for i, raw := range raws {
		c, err := statementLine(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedResponse, i, err)
		}
		out = append(out, c)
	}
	return out, nil
}

func statementLine(raw rawCandidate) (models.Transaction, error) {
	if raw.Description == nil || raw.Amount == nil || raw.Date == nil || raw.Type == nil {
		return models.Transaction{}, fmt.Errorf("missing field")
	}
	date, err := models.ParseDay(*raw.Date)
	if err != nil {
		return models.Transaction{}, err
	}
	c := models.Transaction{
		Description: strings.TrimSpace(*raw.Description),
		Amount:      raw.Amount.Abs(),
		Date:        date,
		Kind:        models.TransactionKind(strings.ToLower(strings.TrimSpace(*raw.Type))),
	}
	if err := c.Validate(); err != nil {
		return models.Transaction{}, err
	}
	return c, nil
}

func (r *GeminiRecognizer) generate(ctx context.Context, prompt string, schema *genai.Schema, doc Document) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(prompt),
			genai.NewPartFromBytes(doc.Data, doc.MIMEType),
		}, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}

	resp, err := r.gen.GenerateContent(ctx, r.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", ErrNoCandidate
	}

	text := cleanModelJSON(resp.Text())
	if text == "" {
		return "", ErrNoCandidate
	}
	return text, nil
}

// cleanModelJSON strips Markdown code fences the model sometimes adds
// despite the JSON response type.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		idx := strings.Index(s, "\n")
		if idx == -1 {
			return ""
		}
		s = s[idx+1:]
		if end := strings.LastIndex(s, "```"); end != -1 {
			s = s[:end]
		}
	}
	return strings.TrimSpace(s)
}

package recognition

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"gastocerto/internal/models"
)

type fakeGenerator struct {
	text   string
	empty  bool
	err    error
	model  string
	config *genai.GenerateContentConfig
	parts  []*genai.Part
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.config = config
	if len(contents) > 0 {
		f.parts = contents[0].Parts
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.empty {
		return &genai.GenerateContentResponse{}, nil
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: f.text}}},
		}},
	}, nil
}

var receipt = Document{Name: "nota.jpg", MIMEType: "image/jpeg", Data: []byte{0xff, 0xd8}}

func fixedRecognizer(gen Generator) *GeminiRecognizer {
	r := NewRecognizer(gen, "")
	r.today = func() time.Time { return time.Date(2024, 3, 10, 22, 30, 0, 0, time.UTC) }
	return r
}

func TestRecognizeSingle_FullCandidate(t *testing.T) {
	gen := &fakeGenerator{text: `{"description":" Padaria Pão Quente ","amount":23.5,"date":"2024-03-05"}`}

	got, err := fixedRecognizer(gen).RecognizeSingle(context.Background(), receipt)
	require.NoError(t, err)

	assert.Equal(t, "Padaria Pão Quente", got.Description)
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("23.50")))
	assert.Equal(t, "2024-03-05", got.Date.String())
	assert.Equal(t, models.KindExpense, got.Kind)
	assert.False(t, got.IsRecurring)

	assert.Equal(t, DefaultModel, gen.model)
	assert.Equal(t, "application/json", gen.config.ResponseMIMEType)
	require.Len(t, gen.parts, 2)
	require.NotNil(t, gen.parts[1].InlineData)
	assert.Equal(t, "image/jpeg", gen.parts[1].InlineData.MIMEType)
}

func TestRecognizeSingle_Defaults(t *testing.T) {
	gen := &fakeGenerator{text: `{"description":null,"amount":null,"date":"not a date"}`}

	got, err := fixedRecognizer(gen).RecognizeSingle(context.Background(), receipt)
	require.NoError(t, err)

	assert.Equal(t, NotFoundDescription, got.Description)
	assert.True(t, got.Amount.IsZero())
	assert.Equal(t, "2024-03-10", got.Date.String())
}

func TestRecognizeSingle_Fenced(t *testing.T) {
	gen := &fakeGenerator{text: "```json\n{\"description\":\"Farmácia\",\"amount\":-12.9,\"date\":\"2024-03-05T23:59:00Z\"}\n```"}

	got, err := fixedRecognizer(gen).RecognizeSingle(context.Background(), receipt)
	require.NoError(t, err)

	assert.Equal(t, "Farmácia", got.Description)
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("12.9")))
	assert.Equal(t, "2024-03-05", got.Date.String())
}

func TestRecognizeSingle_Failures(t *testing.T) {
	boom := errors.New("quota exceeded")

	tests := []struct {
		name string
		gen  *fakeGenerator
		want error
	}{
		{"null result", &fakeGenerator{text: "null"}, ErrNoCandidate},
		{"no candidates", &fakeGenerator{empty: true}, ErrNoCandidate},
		{"blank text", &fakeGenerator{text: "  "}, ErrNoCandidate},
		{"not json", &fakeGenerator{text: "I could not read it"}, ErrMalformedResponse},
		{"transport", &fakeGenerator{err: boom}, boom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fixedRecognizer(tt.gen).RecognizeSingle(context.Background(), receipt)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRecognizeStatement(t *testing.T) {
	gen := &fakeGenerator{text: `[
		{"description":"Aluguel","amount":1500.00,"date":"2024-03-05","type":"expense"},
		{"description":"Salário","amount":5000,"date":"2024-03-01","type":"income"},
		{"description":"Mercado","amount":-250.30,"date":"2024-03-07","type":"EXPENSE"}
	]`}

	got, err := NewRecognizer(gen, "gemini-test").RecognizeStatement(context.Background(), Document{MIMEType: "application/pdf", Data: []byte("%PDF")})
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "gemini-test", gen.model)
	assert.Equal(t, models.KindIncome, got[1].Kind)
	assert.Equal(t, models.KindExpense, got[2].Kind)
	assert.True(t, got[2].Amount.Equal(decimal.RequireFromString("250.30")))
	assert.Equal(t, genai.TypeArray, gen.config.ResponseSchema.Type)
}

func TestRecognizeStatement_Empty(t *testing.T) {
	got, err := NewRecognizer(&fakeGenerator{text: "[]"}, "").RecognizeStatement(context.Background(), receipt)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRecognizeStatement_InvalidLine(t *testing.T) {
	tests := map[string]string{
		"missing type": `[{"description":"A","amount":1,"date":"2024-03-05"}]`,
		"unknown type": `[{"description":"A","amount":1,"date":"2024-03-05","type":"transfer"}]`,
		"bad date":     `[{"description":"A","amount":1,"date":"05/03/2024","type":"expense"}]`,
		"blank":        `[{"description":" ","amount":1,"date":"2024-03-05","type":"expense"}]`,
		"object":       `{"description":"A"}`,
	}

	for name, text := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewRecognizer(&fakeGenerator{text: text}, "").RecognizeStatement(context.Background(), receipt)
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

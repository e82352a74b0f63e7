package matcher

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/usestring/apimatch-mcp/internal/catalog"
	"github.com/usestring/apimatch-mcp/internal/llm"
	"github.com/usestring/apimatch-mcp/pkg/types"
)

// SemanticStrategy delegates matching to a language model. It builds a
// system prompt embedding the whole catalog with typed example literals and
// requires a structured-JSON response. Any transport or parse failure is
// returned to the caller; the DegradingMatcher turns it into a fallback.
type SemanticStrategy struct {
	client      llm.ChatClient
	temperature float64
	maxTokens   int
}

// NewSemantic creates a SemanticStrategy on the given chat client.
func NewSemantic(client llm.ChatClient) *SemanticStrategy {
	return &SemanticStrategy{
		client:      client,
		temperature: 0.1,
		maxTokens:   1024,
	}
}

// Name implements Strategy.
func (s *SemanticStrategy) Name() string { return "semantic" }

// semanticResult is the JSON contract the model is instructed to return.
type semanticResult struct {
	Endpoint         string         `json:"endpoint"`
	Method           string         `json:"method"`
	Params           map[string]any `json:"params"`
	Confidence       float64        `json:"confidence"`
	Reasoning        string         `json:"reasoning"`
	Summary          string         `json:"summary"`
	ExpectedResponse string         `json:"expectedResponse"`
	MissingInfo      *struct {
		RequiredParams    []string `json:"requiredParams"`
		RequestBodyFields []string `json:"requestBodyFields"`
		Suggestions       []string `json:"suggestions"`
		ExampleQuery      string   `json:"exampleQuery"`
	} `json:"missingInfo"`
}

// Match implements Strategy with a single model call. No retries: one
// failure is enough to degrade for this query.
func (s *SemanticStrategy) Match(ctx context.Context, query string, cat *types.Catalog) (*types.MatchResult, error) {
	if cat.Len() == 0 {
		return nil, fmt.Errorf("semantic match: %w", catalog.ErrEmptyCatalog)
	}

	messages := []llm.Message{
		{Role: "system", Content: buildSystemPrompt(cat)},
		{Role: "user", Content: query},
	}

	raw, err := s.client.Chat(ctx, messages, llm.Options{
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
		JSONMode:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("semantic match: %w", err)
	}

	var parsed semanticResult
	if err := json.Unmarshal([]byte(stripFences(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("semantic match: decoding model response: %w", err)
	}
	if parsed.Endpoint == "" {
		return nil, fmt.Errorf("semantic match: model response named no endpoint")
	}

	confidence := parsed.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	result := &types.MatchResult{
		Endpoint:         parsed.Endpoint,
		Method:           strings.ToUpper(parsed.Method),
		Params:           parsed.Params,
		Confidence:       confidence,
		Reasoning:        parsed.Reasoning,
		Summary:          parsed.Summary,
		ExpectedResponse: parsed.ExpectedResponse,
		Strategy:         "semantic",
	}
	if result.Params == nil {
		result.Params = map[string]any{}
	}

	if mi := parsed.MissingInfo; mi != nil && (len(mi.RequiredParams) > 0 || len(mi.RequestBodyFields) > 0) {
		result.MissingInfo = &types.MissingInfo{
			RequiredParams:    mi.RequiredParams,
			RequestBodyFields: mi.RequestBodyFields,
			Suggestions:       mi.Suggestions,
			ExampleQuery:      mi.ExampleQuery,
		}
	}

	return result, nil
}

// buildSystemPrompt renders the catalog into the matching instructions sent
// to the model.
func buildSystemPrompt(cat *types.Catalog) string {
	var sb strings.Builder

	sb.WriteString("You map a user's natural-language request onto exactly one HTTP API operation and extract call parameters.\n\n")

	sb.WriteString("API: ")
	sb.WriteString(cat.Meta.Name)
	if cat.Meta.Version != "" {
		sb.WriteString(" (version ")
		sb.WriteString(cat.Meta.Version)
		sb.WriteString(")")
	}
	sb.WriteByte('\n')
	if cat.Meta.Description != "" {
		sb.WriteString(cat.Meta.Description)
		sb.WriteByte('\n')
	}
	sb.WriteString("\nAvailable endpoints:\n")

	for i := range cat.Endpoints {
		writeEndpointPrompt(&sb, &cat.Endpoints[i])
	}

	sb.WriteString(`
Rules:
- Extract every parameter value present in the request, whether phrased naturally ("named Max") or structured (key="value").
- Emit correctly typed JSON: numbers as JSON numbers, booleans as JSON booleans, never stringified.
- Normalize any date mention to "YYYY-MM-DD" and any time mention to 24-hour "HH:MM".
- List required parameters or body fields the request does not supply under missingInfo.

Respond with a single JSON object:
{"endpoint": "<path>", "method": "<METHOD>", "params": {...}, "confidence": <0..1>, "reasoning": "<short>", "summary": "<one sentence>", "expectedResponse": "<short>", "missingInfo": {"requiredParams": [...], "requestBodyFields": [...], "suggestions": [...], "exampleQuery": "..."}}
Omit missingInfo when nothing is missing.
`)

	return sb.String()
}

func writeEndpointPrompt(sb *strings.Builder, ep *types.EndpointDescriptor) {
	fmt.Fprintf(sb, "\n%s %s", strings.ToUpper(ep.Method), ep.Path)
	if ep.Description != "" {
		fmt.Fprintf(sb, " - %s", ep.Description)
	}
	sb.WriteByte('\n')

	for i := range ep.Parameters {
		p := &ep.Parameters[i]
		fmt.Fprintf(sb, "  param %s (%s", p.Name, p.Type)
		if p.Required {
			sb.WriteString(", required")
		}
		loc := catalog.InferLocation(ep, p)
		fmt.Fprintf(sb, ", in %s)", loc)
		if p.Description != "" {
			fmt.Fprintf(sb, " %s", p.Description)
		}
		fmt.Fprintf(sb, " e.g. %s\n", catalog.ExampleLiteral(p.Name, p.Type))
	}

	if ep.RequestBody != nil {
		required := make(map[string]bool, len(ep.RequestBody.RequiredFields))
		for _, name := range ep.RequestBody.RequiredFields {
			required[name] = true
		}
		for _, name := range sortedKeys(ep.RequestBody.Properties) {
			prop := ep.RequestBody.Properties[name]
			fmt.Fprintf(sb, "  body %s (%s", name, prop.Type)
			if required[name] || prop.Required {
				sb.WriteString(", required")
			}
			sb.WriteString(")")
			if prop.Description != "" {
				fmt.Fprintf(sb, " %s", prop.Description)
			}
			fmt.Fprintf(sb, " e.g. %s\n", catalog.ExampleLiteral(name, prop.Type))
		}
	}
}

// sortedKeys returns map keys in sorted order so the prompt is stable
// across runs.
func sortedKeys(m map[string]types.BodyProperty) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// stripFences removes a markdown code fence if the model wrapped its JSON in
// one despite the JSON response mode.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

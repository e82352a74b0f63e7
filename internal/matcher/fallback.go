package matcher

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/usestring/apimatch-mcp/internal/catalog"
	"github.com/usestring/apimatch-mcp/pkg/fieldtype"
	"github.com/usestring/apimatch-mcp/pkg/types"
)

// methodKeywords maps query verbs to HTTP methods. Sets are checked in this
// fixed priority order; the first set with a hit wins.
var methodKeywords = []struct {
	method   string
	keywords []string
}{
	{"GET", []string{"get", "fetch", "retrieve", "list", "show", "find", "search"}},
	{"POST", []string{"create", "add", "post", "new", "insert"}},
	{"PUT", []string{"update", "modify", "edit", "change", "replace"}},
	{"DELETE", []string{"delete", "remove", "destroy"}},
	{"PATCH", []string{"patch", "partial update"}},
}

// Endpoint scoring weights.
const (
	methodMatchScore     = 5
	pathSegmentScore     = 3
	descriptionWordScore = 1
	confidenceScale      = 10
)

// FallbackStrategy is the deterministic matcher: pure keyword and regex
// heuristics with no external dependencies, so it always produces a result.
type FallbackStrategy struct {
	vocab []VocabEntry
}

// NewFallback creates a FallbackStrategy with the builtin vocabulary table.
func NewFallback() *FallbackStrategy {
	return &FallbackStrategy{vocab: defaultVocab}
}

// NewFallbackWithVocab creates a FallbackStrategy with extra vocabulary
// entries appended to the builtin table.
func NewFallbackWithVocab(extra []VocabEntry) *FallbackStrategy {
	vocab := make([]VocabEntry, 0, len(defaultVocab)+len(extra))
	vocab = append(vocab, defaultVocab...)
	vocab = append(vocab, extra...)
	return &FallbackStrategy{vocab: vocab}
}

// Name implements Strategy.
func (f *FallbackStrategy) Name() string { return "fallback" }

// Match implements Strategy. The result is a pure function of the query and
// catalog: repeated calls yield identical results.
func (f *FallbackStrategy) Match(_ context.Context, query string, cat *types.Catalog) (*types.MatchResult, error) {
	if cat.Len() == 0 {
		return nil, fmt.Errorf("fallback match: %w", catalog.ErrEmptyCatalog)
	}

	method := guessMethod(query)
	ep, score := f.bestEndpoint(query, cat, method)

	params := f.extractParams(query, ep)
	bodyFields := map[string]any{}
	if ep.IsMutating() && ep.RequestBody != nil {
		bodyFields = f.extractBodyFields(query, ep)
		for k, v := range bodyFields {
			params[k] = v
		}
	}

	confidence := float64(score) / confidenceScale
	if confidence > 1 {
		confidence = 1
	}

	result := &types.MatchResult{
		Endpoint:   ep.Path,
		Method:     strings.ToUpper(ep.Method),
		Params:     params,
		Confidence: confidence,
		Reasoning: fmt.Sprintf("keyword match: method %s, endpoint %s (score %d)",
			strings.ToUpper(ep.Method), ep.Path, score),
		Strategy: "fallback",
	}

	result.MissingInfo = f.analyzeMissing(query, ep, params, bodyFields)

	slog.Debug("fallback match",
		"query", query,
		"endpoint", ep.Path,
		"method", result.Method,
		"score", score,
		"params", len(params))

	return result, nil
}

// guessMethod scans the query for verb keywords. Defaults to GET.
func guessMethod(query string) string {
	lower := strings.ToLower(query)
	for _, set := range methodKeywords {
		for _, kw := range set.keywords {
			if strings.Contains(lower, kw) {
				return set.method
			}
		}
	}
	return "GET"
}

// bestEndpoint scores every descriptor and keeps the strictly highest score;
// ties keep the first encountered in catalog order.
func (f *FallbackStrategy) bestEndpoint(query string, cat *types.Catalog, method string) (*types.EndpointDescriptor, int) {
	lower := strings.ToLower(query)

	best := &cat.Endpoints[0]
	bestScore := -1

	for i := range cat.Endpoints {
		ep := &cat.Endpoints[i]
		score := 0

		if strings.EqualFold(ep.Method, method) {
			score += methodMatchScore
		}

		for _, seg := range strings.Split(ep.Path, "/") {
			if seg == "" || strings.HasPrefix(seg, "{") {
				continue
			}
			if strings.Contains(lower, strings.ToLower(seg)) {
				score += pathSegmentScore
			}
		}

		for _, word := range strings.Fields(strings.ToLower(ep.Description)) {
			word = strings.Trim(word, ".,;:()")
			if len(word) > 3 && strings.Contains(lower, word) {
				score += descriptionWordScore
			}
		}

		if score > bestScore {
			best, bestScore = ep, score
		}
	}

	return best, bestScore
}

// extractParams pulls declared path/query parameters out of the query text.
func (f *FallbackStrategy) extractParams(query string, ep *types.EndpointDescriptor) map[string]any {
	params := make(map[string]any)

	for _, p := range ep.Parameters {
		// A date literal anywhere in the query wins for date-named params.
		if strings.Contains(strings.ToLower(p.Name), "date") {
			if date, ok := findDate(query); ok {
				params[p.Name] = date
				continue
			}
		}

		if raw, ok := extractNamedValue(query, p.Name); ok {
			params[p.Name] = coerceValue(raw, p.Type)
		}
	}

	return params
}

// extractBodyFields fills request-body fields from structured key=value
// assignments first, then from the natural-language vocabulary table and
// date/time recognition for anything still unfilled.
func (f *FallbackStrategy) extractBodyFields(query string, ep *types.EndpointDescriptor) map[string]any {
	fields := make(map[string]any)
	assignments := extractAssignments(query)
	captured := lookupVocab(query, f.vocab)

	for name, prop := range ep.RequestBody.Properties {
		if raw, ok := assignments[strings.ToLower(name)]; ok {
			fields[name] = coerceValue(raw, prop.Type)
			continue
		}

		inf := fieldtype.Infer(name, fieldtype.Hint{Type: prop.Type, Description: prop.Description})
		switch inf.Kind {
		case fieldtype.KindDate:
			if date, ok := findDate(query); ok {
				fields[name] = date
				continue
			}
		case fieldtype.KindTime:
			if t, ok := findTime(query); ok {
				fields[name] = t
				continue
			}
		}

		if raw, ok := matchProperty(name, captured); ok {
			fields[name] = coerceValue(raw, prop.Type)
		}
	}

	return fields
}

// analyzeMissing unions absent required parameters and required body fields,
// producing suggestions and an example query. Returns nil when nothing is
// missing.
func (f *FallbackStrategy) analyzeMissing(query string, ep *types.EndpointDescriptor, params map[string]any, bodyFields map[string]any) *types.MissingInfo {
	var missingParams, missingBody []string

	for _, p := range ep.Parameters {
		if !p.Required {
			continue
		}
		if _, ok := params[p.Name]; !ok {
			missingParams = append(missingParams, p.Name)
		}
	}

	if ep.IsMutating() && ep.RequestBody != nil {
		for _, name := range ep.RequestBody.RequiredFields {
			if _, ok := bodyFields[name]; !ok {
				missingBody = append(missingBody, name)
			}
		}
	}

	if len(missingParams) == 0 && len(missingBody) == 0 {
		return nil
	}

	all := make([]string, 0, len(missingParams)+len(missingBody))
	all = append(all, missingParams...)
	all = append(all, missingBody...)

	suggestions := make([]string, 0, len(all))
	for _, name := range all {
		suggestions = append(suggestions, suggestionFor(name, fieldDeclaredType(ep, name)))
	}

	return &types.MissingInfo{
		RequiredParams:    all,
		RequestBodyFields: missingBody,
		Suggestions:       suggestions,
		ExampleQuery:      exampleQuery(ep, all),
	}
}

func fieldDeclaredType(ep *types.EndpointDescriptor, name string) string {
	for _, p := range ep.Parameters {
		if p.Name == name {
			return p.Type
		}
	}
	if ep.RequestBody != nil {
		if prop, ok := ep.RequestBody.Properties[name]; ok {
			return prop.Type
		}
	}
	return ""
}

// suggestionFor builds a per-field hint using the same naming conventions as
// the type inference helper.
func suggestionFor(name, declaredType string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "id"):
		return fmt.Sprintf("Provide the %s (e.g. 123)", name)
	case strings.Contains(lower, "email"):
		return fmt.Sprintf("Provide the %s (e.g. user@example.com)", name)
	case strings.Contains(lower, "name"):
		return fmt.Sprintf("Provide the %s (e.g. John Smith)", name)
	case strings.Contains(lower, "date"):
		return fmt.Sprintf("Provide the %s (e.g. 2025-12-12)", name)
	case strings.Contains(lower, "time") || strings.Contains(lower, "slot"):
		return fmt.Sprintf("Provide the %s (e.g. 14:30)", name)
	case strings.Contains(lower, "phone"):
		return fmt.Sprintf("Provide the %s (e.g. +1-555-0123)", name)
	case declaredType == "integer" || declaredType == "number":
		return fmt.Sprintf("Provide the %s (e.g. 42)", name)
	default:
		return fmt.Sprintf("Provide a value for %s", name)
	}
}

// exampleQuery synthesizes a complete query the user could issue: a verb and
// path phrase plus one example fragment per missing field.
func exampleQuery(ep *types.EndpointDescriptor, missing []string) string {
	var sb strings.Builder
	sb.WriteString(verbForMethod(ep.Method))
	sb.WriteByte(' ')
	sb.WriteString(resourcePhrase(ep.Path))

	for _, name := range missing {
		sb.WriteByte(' ')
		sb.WriteString(name)
		sb.WriteByte('=')
		sb.WriteString(exampleValue(name, fieldDeclaredType(ep, name)))
	}

	return sb.String()
}

func verbForMethod(method string) string {
	switch strings.ToUpper(method) {
	case "GET":
		return "get"
	case "POST":
		return "create"
	case "PUT", "PATCH":
		return "update"
	case "DELETE":
		return "delete"
	}
	return "call"
}

// resourcePhrase returns the last non-placeholder path segment.
func resourcePhrase(path string) string {
	segments := strings.Split(path, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		seg := segments[i]
		if seg != "" && !strings.HasPrefix(seg, "{") {
			return seg
		}
	}
	return "resource"
}

func exampleValue(name, declaredType string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "email"):
		return "user@example.com"
	case strings.Contains(lower, "date"):
		return "2025-12-12"
	case strings.Contains(lower, "time") || strings.Contains(lower, "slot"):
		return "14:30"
	case strings.Contains(lower, "name"):
		return `"John Smith"`
	case strings.Contains(lower, "phone"):
		return "+1-555-0123"
	case strings.Contains(lower, "id"), declaredType == "integer":
		return "123"
	case declaredType == "number":
		return "99.99"
	case declaredType == "boolean":
		return "true"
	default:
		return `"value"`
	}
}

package types

// Parameter detail sources.
const (
	SourceExtracted = "extracted"
	SourceDefault   = "default"
	SourceMissing   = "missing"
	SourceOptional  = "optional"
)

// ParameterDetail describes one declared parameter of the matched endpoint
// and how the engine resolved it.
type ParameterDetail struct {
	Name        string `json:"name"`
	Value       any    `json:"value,omitempty"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type,omitempty"`
	Required    bool   `json:"required,omitempty"`
	Location    string `json:"location,omitempty"`
	Source      string `json:"source"` // extracted|default|missing|optional
}

// MissingInfo describes required information absent from the query.
// Present on a MatchResult if and only if at least one required parameter
// or body field was not extracted.
type MissingInfo struct {
	RequiredParams    []string `json:"required_params"`
	RequestBodyFields []string `json:"request_body_fields,omitempty"`
	Suggestions       []string `json:"suggestions,omitempty"`
	ExampleQuery      string   `json:"example_query,omitempty"`
}

// MatchResult is the engine's single output contract for one query.
// Parameter values are typed: integers as numbers, booleans as booleans,
// dates as YYYY-MM-DD strings, times as HH:MM strings. A MatchResult is
// created fresh per query and never mutated after construction.
type MatchResult struct {
	Endpoint            string            `json:"endpoint"`
	Method              string            `json:"method"`
	Params              map[string]any    `json:"params"`
	Confidence          float64           `json:"confidence"` // [0,1]
	Reasoning           string            `json:"reasoning,omitempty"`
	Summary             string            `json:"summary,omitempty"`
	EndpointDescription string            `json:"endpoint_description,omitempty"`
	ExpectedResponse    string            `json:"expected_response,omitempty"`
	APIName             string            `json:"api_name,omitempty"`
	ParameterDetails    []ParameterDetail `json:"parameter_details,omitempty"`
	MissingInfo         *MissingInfo      `json:"missing_info,omitempty"`
	Guidance            string            `json:"guidance,omitempty"`
	Strategy            string            `json:"strategy,omitempty"` // semantic|fallback
}

// HasMissing reports whether the result flags any missing required input.
func (r *MatchResult) HasMissing() bool {
	return r.MissingInfo != nil &&
		(len(r.MissingInfo.RequiredParams) > 0 || len(r.MissingInfo.RequestBodyFields) > 0)
}

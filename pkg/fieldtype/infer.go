// Package fieldtype infers semantic parameter types from field names.
//
// Many API specs omit parameter types or declare everything as "string".
// This package applies common API naming conventions (user_id is an
// integer, is_active is a boolean, appointment_date is an ISO date) to fill
// those gaps for the matching engine and for catalog ingestion.
package fieldtype

import (
	"log/slog"
	"regexp"
	"strings"
)

// Semantic kinds refining the base JSON type.
const (
	KindNone     = ""
	KindDate     = "date"     // YYYY-MM-DD
	KindTime     = "time"     // HH:MM
	KindDateTime = "datetime" // RFC 3339
	KindEmail    = "email"
	KindPhone    = "phone"
)

// Inferred is the result of a type inference: a JSON type plus an optional
// semantic kind carried by naming convention.
type Inferred struct {
	Type string // string|integer|number|boolean|array|object
	Kind string
}

// Hint carries whatever the source spec declared for a field.
type Hint struct {
	Type        string
	Description string
}

var (
	createdUpdatedAt = regexp.MustCompile(`(?:created|updated).*at$`)
	idPrefix         = regexp.MustCompile(`^id[_-]`)
)

// Infer returns a best-effort semantic type for a field name. Rules are
// checked in priority order; the first match wins. It never fails: the
// default is a plain string. When the result invents a type the source
// omitted, or overrides an under-specified "string" declaration, the
// decision is logged at debug level so operators can fix the source spec.
func Infer(name string, hint Hint) Inferred {
	lower := strings.ToLower(strings.TrimSpace(name))

	// A concrete non-string declaration from the source spec wins; naming
	// conventions only refine the semantic kind.
	if hint.Type != "" && hint.Type != "string" {
		return Inferred{Type: hint.Type, Kind: kindFromName(lower)}
	}

	inferred := inferFromName(lower, hint)
	if inferred.Type != "string" || inferred.Kind != KindNone {
		slog.Debug("inferred field type from name",
			"field", name,
			"declared", hint.Type,
			"type", inferred.Type,
			"kind", inferred.Kind)
	}
	return inferred
}

func inferFromName(lower string, hint Hint) Inferred {
	switch {
	case lower == "id" || strings.HasSuffix(lower, "_id") || idPrefix.MatchString(lower):
		return Inferred{Type: "integer"}

	case containsAny(lower, "count", "quantity", "number", "amount"):
		return Inferred{Type: "integer"}

	case containsAny(lower, "price", "cost", "rate", "fee"):
		return Inferred{Type: "number"}

	case hasAnyPrefix(lower, "is_", "has_", "can_", "should_") ||
		containsAny(lower, "enabled", "active"):
		return Inferred{Type: "boolean"}

	case strings.Contains(lower, "date") && !strings.Contains(lower, "update") &&
		!strings.Contains(lower, "time"):
		return Inferred{Type: "string", Kind: KindDate}

	case containsAny(lower, "timestamp", "datetime") || createdUpdatedAt.MatchString(lower):
		return Inferred{Type: "string", Kind: KindDateTime}

	case containsAny(lower, "time", "slot"):
		return Inferred{Type: "string", Kind: KindTime}

	case strings.Contains(lower, "email"):
		return Inferred{Type: "string", Kind: KindEmail}

	case strings.Contains(lower, "phone"):
		return Inferred{Type: "string", Kind: KindPhone}

	case (strings.HasSuffix(lower, "s") || containsAny(lower, "list", "array")) &&
		mentionsCollection(hint.Description):
		return Inferred{Type: "array"}
	}

	return Inferred{Type: "string"}
}

// kindFromName extracts only the semantic kind, for fields whose base type
// is already declared.
func kindFromName(lower string) string {
	switch {
	case strings.Contains(lower, "date") && !strings.Contains(lower, "update") &&
		!strings.Contains(lower, "time"):
		return KindDate
	case containsAny(lower, "timestamp", "datetime") || createdUpdatedAt.MatchString(lower):
		return KindDateTime
	case containsAny(lower, "time", "slot"):
		return KindTime
	case strings.Contains(lower, "email"):
		return KindEmail
	case strings.Contains(lower, "phone"):
		return KindPhone
	}
	return KindNone
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func mentionsCollection(description string) bool {
	d := strings.ToLower(description)
	return strings.Contains(d, "array") || strings.Contains(d, "list")
}

package validation

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"

	"sld/diagram"
	"sld/layout"
	"sld/pathfinding"
)

// Severity grades an Issue.
type Severity string

// Severities, most serious first.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

func (s Severity) rank() int {
	switch s {
	case SeverityError:
		return 0
	case SeverityWarning:
		return 1
	}
	return 2
}

// Issue codes.
const (
	CodeInvalidField      = "invalid_field"
	CodeFloatingSymbol    = "floating_symbol"
	CodeExternalReference = "external_reference"
	CodeOverlap           = "overlap"
	CodeFallbackRoute     = "fallback_route"
	CodeOutOfService      = "out_of_service"
)

// Issue is one finding about a diagram.
type Issue struct {
	Severity  Severity `json:"severity" yaml:"severity"`
	Code      string   `json:"code" yaml:"code"`
	SymbolIDs []string `json:"symbolIds,omitempty" yaml:"symbolIds,omitempty"`
	Message   string   `json:"message" yaml:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s [%s] %s", i.Severity, i.Code, i.Message)
}

var structValidator = validator.New(validator.WithRequiredStructEnabled())

// CheckSymbols validates the field constraints of every symbol.
func CheckSymbols(symbols []diagram.Symbol) []Issue {
	var issues []Issue
	for _, s := range diagram.SortedByID(symbols) {
		err := structValidator.Struct(s)
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			continue
		}
		for _, fe := range verrs {
			issues = append(issues, Issue{
				Severity:  SeverityError,
				Code:      CodeInvalidField,
				SymbolIDs: []string{s.ID},
				Message:   fmt.Sprintf("symbol %q: field %s fails %q (value %v)", s.ID, fe.Field(), fe.Tag(), fe.Value()),
			})
		}
	}
	return issues
}

// Diagnose turns a layout result and routed paths into severity-tagged issues:
// field errors, floating (quarantined) symbols, references to missing elements,
// residual overlaps, fallback routes and symbols out of service. Issues are sorted
// by severity, then code, then first symbol id.
func Diagnose(symbols []diagram.Symbol, result layout.Result, paths map[string]pathfinding.Path) []Issue {
	issues := CheckSymbols(symbols)

	for _, id := range result.Diagnostics.QuarantinedSymbolIDs {
		issues = append(issues, Issue{
			Severity:  SeverityWarning,
			Code:      CodeFloatingSymbol,
			SymbolIDs: []string{id},
			Message:   fmt.Sprintf("symbol %q is not connected to the network", id),
		})
	}
	for _, ref := range result.Diagnostics.ExternalReferences {
		issues = append(issues, Issue{
			Severity:  SeverityWarning,
			Code:      CodeExternalReference,
			SymbolIDs: []string{ref.SymbolID},
			Message:   fmt.Sprintf("symbol %q refers to missing element %q (%s)", ref.SymbolID, ref.ElementID, ref.Role),
		})
	}
	for _, p := range result.Collisions.Pairs {
		issues = append(issues, Issue{
			Severity:  SeverityInfo,
			Code:      CodeOverlap,
			SymbolIDs: []string{p.A, p.B},
			Message:   fmt.Sprintf("symbols %q and %q overlap", p.A, p.B),
		})
	}

	ids := make([]string, 0, len(paths))
	for id := range paths {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if paths[id].Fallback {
			issues = append(issues, Issue{
				Severity:  SeverityInfo,
				Code:      CodeFallbackRoute,
				SymbolIDs: []string{id},
				Message:   fmt.Sprintf("connection %q could not avoid every symbol", id),
			})
		}
	}

	for _, s := range symbols {
		if !s.InService {
			issues = append(issues, Issue{
				Severity:  SeverityInfo,
				Code:      CodeOutOfService,
				SymbolIDs: []string{s.ID},
				Message:   fmt.Sprintf("symbol %q is out of service", s.ID),
			})
		}
	}

	sort.SliceStable(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if a.Severity.rank() != b.Severity.rank() {
			return a.Severity.rank() < b.Severity.rank()
		}
		if a.Code != b.Code {
			return a.Code < b.Code
		}
		return firstID(a) < firstID(b)
	})
	return issues
}

// Count returns how many issues have the given severity.
func Count(issues []Issue, severity Severity) int {
	n := 0
	for _, i := range issues {
		if i.Severity == severity {
			n++
		}
	}
	return n
}

func firstID(i Issue) string {
	if len(i.SymbolIDs) == 0 {
		return ""
	}
	return i.SymbolIDs[0]
}

// Package generate turns a free-text description into PlantUML source.
//
// There is no language model behind it: the description is matched against an
// ordered keyword rule table and the first matching rule picks a built-in
// template. Anything unmatched gets a generic two-class document that quotes
// the description in a comment.
package generate

import (
	"strings"

	"uml-studio/internal/catalog"
)

// Rule maps a keyword predicate to a template. Rules are evaluated in order
// and the first match wins.
type Rule struct {
	Name  string
	Match func(lower string) bool
	Type  catalog.DiagramType
}

// Rules is the classification table.
var Rules = []Rule{
	{Name: "user+post", Match: allOf("user", "post"), Type: catalog.Class},
	{Name: "sequence|api", Match: anyOf("sequence", "api"), Type: catalog.Sequence},
	{Name: "flow|process", Match: anyOf("flow", "process"), Type: catalog.Activity},
}

func allOf(words ...string) func(string) bool {
	return func(s string) bool {
		for _, w := range words {
			if !strings.Contains(s, w) {
				return false
			}
		}
		return true
	}
}

func anyOf(words ...string) func(string) bool {
	return func(s string) bool {
		for _, w := range words {
			if strings.Contains(s, w) {
				return true
			}
		}
		return false
	}
}

// Result is the outcome of classifying one description.
type Result struct {
	Source string
	// Type is the matched template; empty for the fallback document.
	Type catalog.DiagramType
	// Rule names the matching rule, or "fallback".
	Rule string
}

// Fallback reports whether no rule matched.
func (r Result) Fallback() bool { return r.Type == "" }

// Classify picks the source for description. It never fails; blank input is
// the caller's concern (see IsBlank).
func Classify(description string) Result {
	lower := strings.ToLower(description)
	for _, r := range Rules {
		if r.Match(lower) {
			return Result{Source: catalog.Get(r.Type), Type: r.Type, Rule: r.Name}
		}
	}
	return Result{Source: Fallback(description), Rule: "fallback"}
}

// Fallback builds the generic document. The description is embedded verbatim;
// PlantUML markers inside it are not escaped.
func Fallback(description string) string {
	var b strings.Builder
	b.WriteString("@startuml\n")
	b.WriteString("' AI-generated UML based on your description:\n")
	b.WriteString("' \"" + description + "\"\n")
	b.WriteString(`
class MainEntity {
  -String name
  -String description
  +performAction()
}

class RelatedEntity {
  -String attribute
  +doSomething()
}

MainEntity -- RelatedEntity
@enduml`)
	return b.String()
}

// IsBlank reports whether description is empty or whitespace only.
func IsBlank(description string) bool {
	return strings.TrimSpace(description) == ""
}

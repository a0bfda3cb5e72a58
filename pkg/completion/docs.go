package completion

import (
	"strings"

	"github.com/bastiangx/wordpop/pkg/candidate"
)

// LanguageID strips prefix from a document scope ("source.rust" -> "rust").
// A scope without the prefix yields "".
func LanguageID(scope, prefix string) string {
	if id, ok := strings.CutPrefix(scope, prefix); ok {
		return id
	}
	return ""
}

// ComposeDocs builds the markdown shown in the documentation panel: the
// detail as a fenced code block tagged with language, then the documentation.
// ok is false when the candidate has neither.
func ComposeDocs(item candidate.Candidate, language string) (doc string, ok bool) {
	hasDocs := item.Documentation != nil && item.Documentation.Value != ""
	if !hasDocs && item.Detail == "" {
		return "", false
	}

	var b strings.Builder
	if item.Detail != "" {
		b.WriteString("```")
		b.WriteString(language)
		b.WriteByte('\n')
		b.WriteString(item.Detail)
		b.WriteString("\n```")
	}
	if hasDocs {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(item.Documentation.Value)
	}
	return b.String(), true
}

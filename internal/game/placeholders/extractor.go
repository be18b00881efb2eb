package placeholders

import (
	"regexp"
	"strings"

	"storyturn/internal/game"
)

// placeholderPattern matches ${name} and ${name:value}.
var placeholderPattern = regexp.MustCompile(`\$\{([^}:]*)(?::([^}]*))?\}`)

// Extractor pulls ${...} placeholders out of a session's opening prompt,
// records them on the session and replaces each token with its value.
type Extractor struct {
	state *game.SessionState
}

func NewExtractor(state *game.SessionState) *Extractor {
	return &Extractor{state: state}
}

func (e *Extractor) ExtractPlaceholders(text string) string {
	if e.state.Placeholders == nil {
		e.state.Placeholders = map[string]string{}
	}

	return placeholderPattern.ReplaceAllStringFunc(text, func(token string) string {
		match := placeholderPattern.FindStringSubmatch(token)
		name := strings.TrimSpace(match[1])
		value := name
		if strings.Contains(token, ":") {
			value = strings.TrimSpace(match[2])
		}
		if name == "" {
			return value
		}
		e.state.Placeholders[name] = value
		return value
	})
}

// Fill substitutes recorded placeholder values into text using the same
// ${name} syntax. Unknown names are left as they are.
func Fill(text string, values map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(text, func(token string) string {
		match := placeholderPattern.FindStringSubmatch(token)
		if value, ok := values[strings.TrimSpace(match[1])]; ok {
			return value
		}
		return token
	})
}

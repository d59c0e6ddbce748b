package plates

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"net/url"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const pipelineSeparator = "|"

// StageFunc is a built-in batch stage available to every template without
// registration.
type StageFunc func(value any) (any, error)

var builtinStages = map[string]StageFunc{
	"upper":      stringStage(strings.ToUpper),
	"lower":      stringStage(strings.ToLower),
	"trim":       stringStage(strings.TrimSpace),
	"title":      stringStage(func(s string) string { return cases.Title(language.Und).String(s) }),
	"capitalize": stringStage(capitalize),
	"reverse":    stringStage(reverse),
	"nl2br":      stringStage(nl2br),
	"strip_tags": stringStage(stripTags),
	"sanitize":   stringStage(sanitize),
	"urlencode":  stringStage(url.QueryEscape),
	"markdown":   markdown,
	"json":       encodeJSON,
}

// BuiltinStages returns the names of the built-in batch stages.
func BuiltinStages() []string {
	names := make([]string, 0, len(builtinStages))
	for name := range builtinStages {
		names = append(names, name)
	}
	return names
}

// Batch applies each "|"-separated stage of pipeline to value in order.
// Registered helpers take precedence over built-in stages.
func (t *Template) Batch(value any, pipeline string) (any, error) {
	for _, stage := range strings.Split(pipeline, pipelineSeparator) {
		stage = strings.TrimSpace(stage)

		var err error
		switch {
		case t.engine.FunctionExists(stage):
			value, err = t.Call(stage, value)
		case builtinStages[stage] != nil:
			value, err = builtinStages[stage](value)
		default:
			err = fmt.Errorf("%w: %q", ErrUnknownBatchFunction, stage)
		}
		if err != nil {
			return nil, t.fail(err)
		}
	}
	return value, nil
}

// Escape HTML-escapes value after running it through the optional pipeline.
func (t *Template) Escape(value any, pipeline ...string) (string, error) {
	if joined := strings.Join(pipeline, pipelineSeparator); joined != "" {
		batched, err := t.Batch(value, joined)
		if err != nil {
			return "", err
		}
		value = batched
	}
	return html.EscapeString(toString(value)), nil
}

// E is an alias of Escape.
func (t *Template) E(value any, pipeline ...string) (string, error) {
	return t.Escape(value, pipeline...)
}

func stringStage(fn func(string) string) StageFunc {
	return func(value any) (any, error) {
		return fn(toString(value)), nil
	}
}

func toString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func reverse(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}

var nl2brReplacer = strings.NewReplacer("\r\n", "<br />\r\n", "\n", "<br />\n", "\r", "<br />\r")

func nl2br(s string) string {
	return nl2brReplacer.Replace(s)
}

var (
	policyOnce   sync.Once
	stripPolicy  *bluemonday.Policy
	markupPolicy *bluemonday.Policy
)

func policies() {
	policyOnce.Do(func() {
		stripPolicy = bluemonday.StrictPolicy()
		markupPolicy = bluemonday.UGCPolicy()
	})
}

func stripTags(s string) string {
	policies()
	return stripPolicy.Sanitize(s)
}

// sanitize keeps user-content markup such as links and emphasis while
// dropping scripts, styles and event handlers.
func sanitize(s string) string {
	policies()
	return markupPolicy.Sanitize(s)
}

func markdown(value any) (any, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(toString(value)), &buf); err != nil {
		return nil, fmt.Errorf("plates: markdown: %w", err)
	}
	return buf.String(), nil
}

func encodeJSON(value any) (any, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("plates: json: %w", err)
	}
	return string(raw), nil
}

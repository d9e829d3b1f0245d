package markup

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

var fenceRegexp = regexp.MustCompile("(?s)```.*?```")

// Segment is a run of prose or one fenced code block.
type Segment struct {
	Code     bool
	Language string
	Text     string
}

func HasCode(text string) bool {
	return fenceRegexp.MatchString(text)
}

// Split cuts text into prose and fenced code segments in order. Empty prose
// between fences is dropped. An unterminated fence stays prose.
func Split(text string) []Segment {
	segments := make([]Segment, 0, 1)
	last := 0
	for _, loc := range fenceRegexp.FindAllStringIndex(text, -1) {
		if prose := text[last:loc[0]]; strings.TrimSpace(prose) != "" {
			segments = append(segments, Segment{Text: prose})
		}
		segments = append(segments, parseFence(text[loc[0]:loc[1]]))
		last = loc[1]
	}
	if prose := text[last:]; strings.TrimSpace(prose) != "" {
		segments = append(segments, Segment{Text: prose})
	}
	return segments
}

func parseFence(fence string) Segment {
	body := strings.TrimSuffix(strings.TrimPrefix(fence, "```"), "```")
	language, code, found := strings.Cut(body, "\n")
	if !found || strings.ContainsAny(strings.TrimSpace(language), " \t") {
		return Segment{Code: true, Text: strings.Trim(body, "\n")}
	}
	return Segment{
		Code:     true,
		Language: strings.TrimSpace(language),
		Text:     strings.TrimRight(code, "\n"),
	}
}

// Highlight colors code for a 256-color terminal. It returns code unchanged
// when highlighting fails.
func Highlight(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}
	var buf strings.Builder
	if err = formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return buf.String()
}

// DetectLanguage names the language of code, or "" when unknown.
func DetectLanguage(code string) string {
	if lexer := lexers.Analyse(code); lexer != nil {
		return strings.ToLower(lexer.Config().Name)
	}
	return ""
}

// TelegramHTML renders text in the HTML subset accepted by the Telegram Bot
// API: prose is escaped, code blocks become pre/code elements.
func TelegramHTML(text string) string {
	var b strings.Builder
	for _, segment := range Split(text) {
		if !segment.Code {
			b.WriteString(html.EscapeString(segment.Text))
			continue
		}
		if segment.Language != "" {
			_, _ = fmt.Fprintf(&b, `<pre><code class="language-%s">%s</code></pre>`,
				html.EscapeString(segment.Language), html.EscapeString(segment.Text))
		} else {
			_, _ = fmt.Fprintf(&b, "<pre>%s</pre>", html.EscapeString(segment.Text))
		}
	}
	return b.String()
}

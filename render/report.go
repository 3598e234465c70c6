package render

import (
	"html"
	"strings"

	"github.com/cryptodiscord/cryptobot/query"
)

const (
	ContentDone = "조회 완료!"
	Placeholder = "정보 없음"
)

// Meta display metadata supplied by the orchestrator
type Meta struct {
	UserName string
	Exchange string
	State    query.State
	UsdtRate float64 // KRW per USDT, <= 0 means DefaultUsdtRate
}

type Field struct {
	Name  string
	Value string
}

/*
Report
platform neutral rendering result. Content is the plain message line, the rest forms an
embed-like card. Fields keep insertion order.
*/
type Report struct {
	Content     string
	Title       string
	Description string
	Fields      []Field
}

func (r *Report) AddField(name, value string) {
	r.Fields = append(r.Fields, Field{Name: name, Value: value})
}

// Markdown joins the report into a single markdown-flavoured text.
func (r *Report) Markdown() string {
	var b strings.Builder
	if r.Content != "" {
		b.WriteString(r.Content)
		b.WriteString("\n\n")
	}
	if r.Title != "" {
		b.WriteString("**")
		b.WriteString(r.Title)
		b.WriteString("**\n")
	}
	if r.Description != "" {
		b.WriteString(r.Description)
		b.WriteString("\n")
	}
	for _, f := range r.Fields {
		b.WriteString("\n**")
		b.WriteString(f.Name)
		b.WriteString("**\n")
		b.WriteString(strings.TrimRight(f.Value, "\n"))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Text flattens the report into Telegram HTML.
func (r *Report) Text() string {
	return ChatHTML(r.Markdown())
}

/*
ChatHTML
converts the small markdown subset used in replies into Telegram HTML: ``` fences become
<pre>, `code` becomes <code>, **bold** becomes <b>. Everything else is escaped.
*/
func ChatHTML(text string) string {
	var b strings.Builder
	parts := strings.Split(text, "```")
	for i, part := range parts {
		if i%2 == 1 && i < len(parts)-1 {
			b.WriteString("<pre>")
			b.WriteString(html.EscapeString(strings.Trim(part, "\n")))
			b.WriteString("</pre>")
			continue
		}
		if i%2 == 1 {
			// unbalanced fence, keep it literal
			b.WriteString("```")
		}
		b.WriteString(inlineHTML(part))
	}
	return b.String()
}

func inlineHTML(text string) string {
	text = pairTags(html.EscapeString(text), "**", "b")
	return pairTags(text, "`", "code")
}

func pairTags(text, mark, tag string) string {
	parts := strings.Split(text, mark)
	if len(parts) < 3 {
		return text
	}
	var b strings.Builder
	for i, part := range parts {
		if i > 0 {
			switch {
			case i == len(parts)-1 && i%2 == 1:
				b.WriteString(mark)
			case i%2 == 1:
				b.WriteString("<" + tag + ">")
			default:
				b.WriteString("</" + tag + ">")
			}
		}
		b.WriteString(part)
	}
	return b.String()
}

// Package render turns task list snapshots into terminal text.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/evanschultz/checklist/internal/app"
)

// Labels holds the user-facing copy used by the markdown view.
type Labels struct {
	Title      string
	EmptyTitle string
	EmptyHint  string
}

// markdownEscaper escapes characters that would turn task text into markup.
var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"#", `\#`,
	"<", `\<`,
	">", `\>`,
	"~", `\~`,
)

// Markdown renders the header, then either the empty state or one checklist line per task.
// Lines are numbered so shell commands can address tasks by position.
func Markdown(snap app.Snapshot, labels Labels) string {
	var b strings.Builder
	if title := strings.TrimSpace(labels.Title); title != "" {
		fmt.Fprintf(&b, "# %s\n\n", markdownEscaper.Replace(title))
	}
	fmt.Fprintf(&b, "Created **%d** · Done **%d of %d**\n\n", snap.Total, snap.Checked, snap.Total)

	if snap.Empty() {
		fmt.Fprintf(&b, "**%s**\n\n", markdownEscaper.Replace(labels.EmptyTitle))
		if hint := strings.TrimSpace(labels.EmptyHint); hint != "" {
			fmt.Fprintf(&b, "%s\n", markdownEscaper.Replace(hint))
		}
		return b.String()
	}

	for idx, task := range snap.Tasks {
		mark := " "
		if task.Checked {
			mark = "x"
		}
		text := markdownEscaper.Replace(task.Text)
		if task.Checked {
			text = "~~" + text + "~~"
		}
		fmt.Fprintf(&b, "- [%s] %d. %s\n", mark, idx+1, text)
	}
	return b.String()
}

// Renderer converts markdown into ANSI-styled text and recreates the glamour renderer when wrap width changes.
type Renderer struct {
	style    string
	width    int
	renderer *glamour.TermRenderer
}

// NewRenderer constructs a renderer for one glamour standard style.
func NewRenderer(style string) *Renderer {
	style = strings.TrimSpace(strings.ToLower(style))
	if style == "" {
		style = "dark"
	}
	return &Renderer{style: style}
}

// Render styles markdown at the requested wrap width, returning the input unchanged when styling fails.
func (r *Renderer) Render(markdown string, width int) string {
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return ""
	}

	wrapWidth := width
	if wrapWidth < 24 {
		wrapWidth = 24
	}

	if r.renderer == nil || r.width != wrapWidth {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(r.style),
			glamour.WithWordWrap(wrapWidth),
		)
		if err != nil {
			return markdown
		}
		r.renderer = renderer
		r.width = wrapWidth
	}

	rendered, err := r.renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.TrimRight(rendered, "\n")
}

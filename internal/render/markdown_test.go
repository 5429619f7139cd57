package render

import (
	"strings"
	"testing"

	"github.com/evanschultz/checklist/internal/app"
	"github.com/evanschultz/checklist/internal/domain"
)

var testLabels = Labels{
	Title:      "checklist",
	EmptyTitle: "You have no tasks yet",
	EmptyHint:  "Create tasks and organize your to-do items",
}

func TestMarkdownEmptyState(t *testing.T) {
	out := Markdown(app.Snapshot{}, testLabels)
	for _, want := range []string{"# checklist", "Created **0**", "Done **0 of 0**", "**You have no tasks yet**", "organize your to-do items"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "- [") {
		t.Fatalf("expected no list items in empty state:\n%s", out)
	}
}

func TestMarkdownListsTasksInOrder(t *testing.T) {
	snap := app.Snapshot{
		Tasks: []domain.Task{
			{ID: "t1", Text: "Buy milk", Checked: true},
			{ID: "t2", Text: "Walk *dog*"},
		},
		Total:   2,
		Checked: 1,
	}
	out := Markdown(snap, testLabels)
	first := strings.Index(out, "- [x] 1. ~~Buy milk~~")
	second := strings.Index(out, `- [ ] 2. Walk \*dog\*`)
	if first < 0 || second < 0 || first > second {
		t.Fatalf("unexpected list rendering:\n%s", out)
	}
	if !strings.Contains(out, "Done **1 of 2**") {
		t.Fatalf("expected header counters:\n%s", out)
	}
	if strings.Contains(out, "You have no tasks yet") {
		t.Fatalf("did not expect empty state:\n%s", out)
	}
}

func TestMarkdownEscapesTaskMarkup(t *testing.T) {
	snap := app.Snapshot{
		Tasks: []domain.Task{{ID: "a", Text: "~~x~~ *y*"}},
		Total: 1,
	}
	out := Markdown(snap, testLabels)
	want := "- [ ] 1. \\~\\~x\\~\\~ \\*y\\*"
	if !strings.Contains(out, want) {
		t.Fatalf("expected escaped unchecked line %q, got %q", want, out)
	}
}

func TestMarkdownOmitsBlankTitle(t *testing.T) {
	out := Markdown(app.Snapshot{}, Labels{EmptyTitle: "none"})
	if strings.HasPrefix(out, "#") {
		t.Fatalf("expected no heading, got:\n%s", out)
	}
}

func TestRendererRendersText(t *testing.T) {
	r := NewRenderer("notty")
	out := r.Render("- [ ] 1. Buy milk\n", 40)
	if !strings.Contains(out, "Buy milk") {
		t.Fatalf("expected task text in rendered output, got %q", out)
	}
	if r.Render("   ", 40) != "" {
		t.Fatal("expected blank markdown to render empty")
	}
}

func TestRendererRecreatesOnWidthChange(t *testing.T) {
	r := NewRenderer("")
	if r.style != "dark" {
		t.Fatalf("expected dark default style, got %q", r.style)
	}
	_ = r.Render("hello", 10)
	if r.width != 24 {
		t.Fatalf("expected minimum wrap width 24, got %d", r.width)
	}
	_ = r.Render("hello", 60)
	if r.width != 60 {
		t.Fatalf("expected wrap width 60, got %d", r.width)
	}
}

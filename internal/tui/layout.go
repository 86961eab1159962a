package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/reflow/wordwrap"
)

// Rows taken by everything on the query screen except the answer viewport:
// title, input, selector, hint, api line, error, status bar and the gaps
// joinNonEmpty puts between them.
const queryChrome = 14

type pageLayout struct {
	viewportWidth  int
	viewportHeight int
}

func newPageLayout() pageLayout {
	return pageLayout{
		viewportWidth:  80,
		viewportHeight: 16,
	}
}

func (l *pageLayout) Update(width, height int) {
	innerWidth := width - viewportHorizontalPadding
	if innerWidth < minViewportWidth {
		innerWidth = minViewportWidth
	}
	l.viewportWidth = innerWidth
	contentHeight := height - queryChrome
	if contentHeight < 5 {
		contentHeight = 5
	}
	l.viewportHeight = contentHeight
}

func (l pageLayout) wrapWidth(padding int) int {
	width := l.viewportWidth - padding
	if width < 20 {
		return 20
	}
	return width
}

// resultContent lays out the answer block and the source list. Either part
// is left out when it is empty.
func resultContent(answer string, sources []string, width int, renderer *glamour.TermRenderer) string {
	var blocks []string
	if answer != "" {
		blocks = append(blocks, sectionHeaderStyle.Render("Answer")+"\n"+renderAnswer(answer, width, renderer))
	}
	if len(sources) > 0 {
		items := make([]string, 0, len(sources))
		for _, src := range sources {
			items = append(items, indentMultiline(wordwrap.String("• "+src, width-2), "  "))
		}
		blocks = append(blocks, sectionHeaderStyle.Render("Sources")+"\n"+strings.Join(items, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}

func renderAnswer(answer string, width int, renderer *glamour.TermRenderer) string {
	if renderer != nil {
		if out, err := renderer.Render(answer); err == nil {
			return strings.Trim(out, "\n")
		}
	}
	return indentMultiline(wordwrap.String(answer, width-2), "  ")
}

func indentMultiline(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}

package output

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

const (
	defaultMarkdownWidth = 80
	minMarkdownWidth     = 20
)

// Renderers are built per wrap width; the map view re-renders the same
// detail panel on every frame.
var (
	renderersMu sync.Mutex
	renderers   = map[int]*glamour.TermRenderer{}
)

// TerminalWidth is the width of stdout, then $COLUMNS, then fallback.
func TerminalWidth(fallback int) int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	if w, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && w > 0 {
		return w
	}
	if fallback > 0 {
		return fallback
	}
	return defaultMarkdownWidth
}

// RenderMarkdownWithWidth renders markdown wrapped at width cells.
// GLAMOUR_STYLE selects the theme when set.
func RenderMarkdownWithWidth(text string, width int) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	if width < minMarkdownWidth {
		width = minMarkdownWidth
	}

	renderersMu.Lock()
	defer renderersMu.Unlock()

	renderer, ok := renderers[width]
	if !ok {
		var err error
		renderer, err = glamour.NewTermRenderer(
			glamour.WithEnvironmentConfig(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return "", err
		}
		renderers[width] = renderer
	}

	rendered, err := renderer.Render(text)
	if err != nil {
		return "", err
	}
	return strings.Trim(rendered, "\n"), nil
}

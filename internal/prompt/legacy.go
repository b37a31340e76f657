package prompt

import (
	"fmt"
	"io"

	"github.com/temirov/git-prompt-info/internal/gitstatus"
)

const (
	legacyForegroundTemplateConstant = "\x1b[38;5;%03dm"
	legacyResetSequenceConstant      = "\x1b[m"
	legacyLineTemplateConstant       = " %s%s %s%s%s%s%s\n"
	legacyDirtyMarkerConstant        = "*"
)

// LegacyRenderer writes a single line with raw 256-color escape sequences
// suitable for direct interpolation into a prompt template. It shows the
// dirty marker only and writes nothing when unavailable.
type LegacyRenderer struct {
	Palette Palette
}

// RenderAvailable implements Renderer.
func (renderer LegacyRenderer) RenderAvailable(writer io.Writer, state gitstatus.RepositoryState) error {
	dirtyMarker := ""
	if state.IsDirty {
		dirtyMarker = legacyDirtyMarkerConstant
	}

	_, writeError := fmt.Fprintf(
		writer,
		legacyLineTemplateConstant,
		legacyForeground(renderer.Palette.Muted),
		state.Preposition(),
		legacyForeground(renderer.Palette.Accent),
		state.DisplayName(),
		legacyForeground(renderer.Palette.Alert),
		dirtyMarker,
		legacyResetSequenceConstant,
	)
	return writeError
}

// RenderUnavailable implements Renderer.
func (renderer LegacyRenderer) RenderUnavailable(io.Writer) error {
	return nil
}

func legacyForeground(colorIndex uint8) string {
	return fmt.Sprintf(legacyForegroundTemplateConstant, colorIndex)
}

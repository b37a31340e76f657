package prompt

import (
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/temirov/git-prompt-info/internal/gitstatus"
)

const (
	segmentLeadingSeparatorConstant       = " "
	segmentTokenSeparatorConstant         = " "
	extendedForegroundAttributeConstant   = color.Attribute(38)
	extendedColorPaletteAttributeConstant = color.Attribute(5)
)

// TerminalDetector reports whether writes to writer reach an interactive terminal.
type TerminalDetector func(writer io.Writer) bool

// SegmentRenderer writes tokens through fatih/color using the palette tones:
// preposition muted, name accented, weird glyph in warning, dirty glyph in alert.
type SegmentRenderer struct {
	palette          Palette
	colorMode        ColorMode
	bailLine         bool
	terminalDetector TerminalDetector
}

// NewSegmentRenderer constructs a SegmentRenderer. When bailLine is set the
// unavailable presentation is the machine bail line instead of nothing.
func NewSegmentRenderer(palette Palette, colorMode ColorMode, bailLine bool) SegmentRenderer {
	return SegmentRenderer{
		palette:          palette,
		colorMode:        colorMode,
		bailLine:         bailLine,
		terminalDetector: IsTerminalWriter,
	}
}

// WithTerminalDetector returns a copy using the provided detector for ColorAuto.
func (renderer SegmentRenderer) WithTerminalDetector(detector TerminalDetector) SegmentRenderer {
	if detector != nil {
		renderer.terminalDetector = detector
	}
	return renderer
}

// RenderAvailable implements Renderer.
func (renderer SegmentRenderer) RenderAvailable(writer io.Writer, state gitstatus.RepositoryState) error {
	colorEnabled := renderer.colorEnabled(writer)

	var segmentBuilder strings.Builder
	segmentBuilder.WriteString(segmentLeadingSeparatorConstant)
	segmentBuilder.WriteString(renderer.tone(renderer.palette.Muted, colorEnabled).Sprint(state.Preposition()))
	segmentBuilder.WriteString(segmentTokenSeparatorConstant)
	segmentBuilder.WriteString(renderer.tone(renderer.palette.Accent, colorEnabled).Sprint(state.DisplayName()))
	if state.IsWeird {
		segmentBuilder.WriteString(renderer.tone(renderer.palette.Warning, colorEnabled).Sprint(renderer.palette.WeirdGlyph))
	}
	if state.IsDirty {
		segmentBuilder.WriteString(renderer.tone(renderer.palette.Alert, colorEnabled).Sprint(renderer.palette.DirtyGlyph))
	}
	segmentBuilder.WriteString(lineTerminatorConstant)

	_, writeError := io.WriteString(writer, segmentBuilder.String())
	return writeError
}

// RenderUnavailable implements Renderer.
func (renderer SegmentRenderer) RenderUnavailable(writer io.Writer) error {
	if !renderer.bailLine {
		return nil
	}
	return MachineRenderer{}.RenderUnavailable(writer)
}

func (renderer SegmentRenderer) tone(colorIndex uint8, colorEnabled bool) *color.Color {
	tone := color.New(extendedForegroundAttributeConstant, extendedColorPaletteAttributeConstant, color.Attribute(colorIndex))
	if colorEnabled {
		tone.EnableColor()
	} else {
		tone.DisableColor()
	}
	return tone
}

func (renderer SegmentRenderer) colorEnabled(writer io.Writer) bool {
	switch renderer.colorMode {
	case ColorNever:
		return false
	case ColorAuto:
		if renderer.terminalDetector == nil {
			return false
		}
		return renderer.terminalDetector(writer)
	default:
		return true
	}
}

// IsTerminalWriter reports whether writer is an *os.File attached to a terminal.
func IsTerminalWriter(writer io.Writer) bool {
	file, isFile := writer.(*os.File)
	if !isFile {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

package prompt

import (
	"fmt"
	"io"

	"github.com/temirov/git-prompt-info/internal/gitstatus"
)

const (
	unsupportedRendererModeTemplateConstant = "no renderer for mode %q"
)

// Renderer writes a presentation of the repository state.
type Renderer interface {
	// RenderAvailable writes the presentation of a collected repository state.
	RenderAvailable(writer io.Writer, state gitstatus.RepositoryState) error
	// RenderUnavailable writes the presentation used when no repository information exists.
	RenderUnavailable(writer io.Writer) error
}

// NewRenderer returns the renderer variant selected by options.
func NewRenderer(options Options) (Renderer, error) {
	switch options.Mode {
	case ModeMachine:
		return MachineRenderer{Protocol: options.Protocol}, nil
	case ModeLegacy:
		return LegacyRenderer{Palette: options.Palette}, nil
	case ModeSegment:
		return NewSegmentRenderer(options.Palette, options.ColorMode, options.SegmentBailLine), nil
	default:
		return nil, fmt.Errorf(unsupportedRendererModeTemplateConstant, options.Mode)
	}
}

func formatFlag(value bool) string {
	if value {
		return availableFlagConstant
	}
	return unavailableFlagConstant
}

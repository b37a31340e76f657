package prompt

import (
	"io"
	"strings"

	"github.com/temirov/git-prompt-info/internal/gitstatus"
)

const (
	availableFlagConstant         = "1"
	unavailableFlagConstant       = "0"
	machineFieldSeparatorConstant = " "
	lineTerminatorConstant        = "\n"
)

// MachineRenderer writes the space-separated line consumed by prompt scripts:
// "1 <on|at> <name> <dirty>[ <weird>]" or "0" when unavailable.
type MachineRenderer struct {
	Protocol Protocol
}

// RenderAvailable implements Renderer.
func (renderer MachineRenderer) RenderAvailable(writer io.Writer, state gitstatus.RepositoryState) error {
	fields := []string{
		availableFlagConstant,
		state.Preposition(),
		state.DisplayName(),
		formatFlag(state.IsDirty),
	}
	if renderer.Protocol != ProtocolV1 {
		fields = append(fields, formatFlag(state.IsWeird))
	}

	_, writeError := io.WriteString(writer, strings.Join(fields, machineFieldSeparatorConstant)+lineTerminatorConstant)
	return writeError
}

// RenderUnavailable implements Renderer.
func (renderer MachineRenderer) RenderUnavailable(writer io.Writer) error {
	_, writeError := io.WriteString(writer, unavailableFlagConstant+lineTerminatorConstant)
	return writeError
}

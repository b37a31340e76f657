package prompt

import (
	"fmt"
	"strings"
)

const (
	modeMachineStringConstant            = "machine"
	modeLegacyStringConstant             = "legacy"
	modeLegacyAliasStringConstant        = "zsh"
	modeSegmentStringConstant            = "segment"
	protocolV1StringConstant             = "v1"
	protocolV2StringConstant             = "v2"
	colorAlwaysStringConstant            = "always"
	colorNeverStringConstant             = "never"
	colorAutoStringConstant              = "auto"
	defaultMutedColorConstant            = 242
	defaultAccentColorConstant           = 23
	defaultWarningColorConstant          = 136
	defaultAlertColorConstant            = 124
	defaultWeirdGlyphConstant            = "!"
	defaultDirtyGlyphConstant            = "*"
	unsupportedModeTemplateConstant      = "unsupported prompt mode: %q"
	unsupportedProtocolTemplateConstant  = "unsupported machine protocol: %q"
	unsupportedColorModeTemplateConstant = "unsupported color mode: %q"
)

// Mode selects the renderer variant.
type Mode string

// Supported renderer variants.
const (
	ModeMachine Mode = Mode(modeMachineStringConstant)
	ModeLegacy  Mode = Mode(modeLegacyStringConstant)
	ModeSegment Mode = Mode(modeSegmentStringConstant)
)

// Modes lists the selectable renderer variants.
func Modes() []Mode {
	return []Mode{ModeMachine, ModeLegacy, ModeSegment}
}

// ParseMode normalizes a textual mode. "zsh" is accepted as an alias of legacy.
func ParseMode(rawMode string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(rawMode)) {
	case modeMachineStringConstant:
		return ModeMachine, nil
	case modeLegacyStringConstant, modeLegacyAliasStringConstant:
		return ModeLegacy, nil
	case modeSegmentStringConstant:
		return ModeSegment, nil
	default:
		return "", fmt.Errorf(unsupportedModeTemplateConstant, rawMode)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (mode *Mode) UnmarshalText(text []byte) error {
	parsedMode, parseError := ParseMode(string(text))
	if parseError != nil {
		return parseError
	}
	*mode = parsedMode
	return nil
}

// Protocol selects the machine line layout. V1 omits the weird flag.
type Protocol string

// Supported machine line protocols.
const (
	ProtocolV1 Protocol = Protocol(protocolV1StringConstant)
	ProtocolV2 Protocol = Protocol(protocolV2StringConstant)
)

// ParseProtocol normalizes a textual protocol version.
func ParseProtocol(rawProtocol string) (Protocol, error) {
	switch strings.ToLower(strings.TrimSpace(rawProtocol)) {
	case protocolV1StringConstant:
		return ProtocolV1, nil
	case protocolV2StringConstant:
		return ProtocolV2, nil
	default:
		return "", fmt.Errorf(unsupportedProtocolTemplateConstant, rawProtocol)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (protocol *Protocol) UnmarshalText(text []byte) error {
	parsedProtocol, parseError := ParseProtocol(string(text))
	if parseError != nil {
		return parseError
	}
	*protocol = parsedProtocol
	return nil
}

// ColorMode controls whether the segment renderer emits color sequences.
type ColorMode string

// Supported color modes.
const (
	ColorAlways ColorMode = ColorMode(colorAlwaysStringConstant)
	ColorNever  ColorMode = ColorMode(colorNeverStringConstant)
	ColorAuto   ColorMode = ColorMode(colorAutoStringConstant)
)

// ParseColorMode normalizes a textual color mode.
func ParseColorMode(rawColorMode string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(rawColorMode)) {
	case colorAlwaysStringConstant:
		return ColorAlways, nil
	case colorNeverStringConstant:
		return ColorNever, nil
	case colorAutoStringConstant:
		return ColorAuto, nil
	default:
		return "", fmt.Errorf(unsupportedColorModeTemplateConstant, rawColorMode)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (colorMode *ColorMode) UnmarshalText(text []byte) error {
	parsedColorMode, parseError := ParseColorMode(string(text))
	if parseError != nil {
		return parseError
	}
	*colorMode = parsedColorMode
	return nil
}

// Palette holds 256-color indices and glyphs shared by the colored renderers.
type Palette struct {
	Muted      uint8  `mapstructure:"muted"`
	Accent     uint8  `mapstructure:"accent"`
	Warning    uint8  `mapstructure:"warning"`
	Alert      uint8  `mapstructure:"alert"`
	WeirdGlyph string `mapstructure:"weird_glyph"`
	DirtyGlyph string `mapstructure:"dirty_glyph"`
}

// DefaultPalette returns the gray, teal, amber, and red palette.
func DefaultPalette() Palette {
	return Palette{
		Muted:      defaultMutedColorConstant,
		Accent:     defaultAccentColorConstant,
		Warning:    defaultWarningColorConstant,
		Alert:      defaultAlertColorConstant,
		WeirdGlyph: defaultWeirdGlyphConstant,
		DirtyGlyph: defaultDirtyGlyphConstant,
	}
}

// Options selects and parameterizes a renderer.
type Options struct {
	Mode            Mode
	Protocol        Protocol
	ColorMode       ColorMode
	Palette         Palette
	SegmentBailLine bool
}

// DefaultOptions returns the machine renderer with protocol v2 and the default palette.
func DefaultOptions() Options {
	return Options{
		Mode:      ModeMachine,
		Protocol:  ProtocolV2,
		ColorMode: ColorAlways,
		Palette:   DefaultPalette(),
	}
}

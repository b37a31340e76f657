package pathutils

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	tildeSymbolConstant                   = "~"
	tildeForwardSlashPrefixConstant       = "~/"
	xdgConfigHomeEnvironmentNameConstant  = "XDG_CONFIG_HOME"
	defaultConfigurationDirectoryConstant = ".config"
)

var tildeWithPathSeparatorPrefix = tildeSymbolConstant + string(os.PathSeparator)

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// EnvironmentLookup reports the value of an environment variable.
type EnvironmentLookup func(name string) (string, bool)

// HomeExpander converts user home shortcuts to absolute paths.
type HomeExpander struct {
	homeDirectoryProvider HomeDirectoryProvider
	environmentLookup     EnvironmentLookup
	homeDirectory         string
	homeDirectoryError    error
	initializationGuard   sync.Once
}

// NewHomeExpander constructs a HomeExpander using the operating system lookup.
func NewHomeExpander() *HomeExpander {
	return NewHomeExpanderWithProvider(os.UserHomeDir)
}

// NewHomeExpanderWithProvider constructs a HomeExpander with a custom provider.
func NewHomeExpanderWithProvider(provider HomeDirectoryProvider) *HomeExpander {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &HomeExpander{homeDirectoryProvider: provider, environmentLookup: os.LookupEnv}
}

// WithEnvironmentLookup replaces the environment lookup used by ConfigurationDirectory.
func (expander *HomeExpander) WithEnvironmentLookup(lookup EnvironmentLookup) *HomeExpander {
	if expander != nil && lookup != nil {
		expander.environmentLookup = lookup
	}
	return expander
}

// Expand resolves a leading "~" or "~/" to the user's home directory. Paths
// naming other users ("~name") and paths without a tilde are returned as-is.
func (expander *HomeExpander) Expand(candidatePath string) string {
	if expander == nil || !strings.HasPrefix(candidatePath, tildeSymbolConstant) {
		return candidatePath
	}

	resolvedHomeDirectory := expander.resolveHomeDirectory()
	if len(resolvedHomeDirectory) == 0 {
		return candidatePath
	}

	switch {
	case candidatePath == tildeSymbolConstant:
		return resolvedHomeDirectory
	case strings.HasPrefix(candidatePath, tildeForwardSlashPrefixConstant):
		return filepath.Join(resolvedHomeDirectory, strings.TrimPrefix(candidatePath, tildeForwardSlashPrefixConstant))
	case strings.HasPrefix(candidatePath, tildeWithPathSeparatorPrefix):
		return filepath.Join(resolvedHomeDirectory, strings.TrimPrefix(candidatePath, tildeWithPathSeparatorPrefix))
	default:
		return candidatePath
	}
}

// ConfigurationDirectory returns applicationName under $XDG_CONFIG_HOME, or
// under ~/.config when the variable is unset or empty. It returns an empty
// string when neither location can be determined.
func (expander *HomeExpander) ConfigurationDirectory(applicationName string) string {
	if expander == nil {
		return ""
	}

	if configurationHome, exists := expander.environmentLookup(xdgConfigHomeEnvironmentNameConstant); exists && len(strings.TrimSpace(configurationHome)) > 0 {
		return filepath.Join(expander.Expand(configurationHome), applicationName)
	}

	resolvedHomeDirectory := expander.resolveHomeDirectory()
	if len(resolvedHomeDirectory) == 0 {
		return ""
	}
	return filepath.Join(resolvedHomeDirectory, defaultConfigurationDirectoryConstant, applicationName)
}

func (expander *HomeExpander) resolveHomeDirectory() string {
	expander.initializationGuard.Do(func() {
		expander.homeDirectory, expander.homeDirectoryError = expander.homeDirectoryProvider()
	})
	if expander.homeDirectoryError != nil {
		return ""
	}
	return expander.homeDirectory
}

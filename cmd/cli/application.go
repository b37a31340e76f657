package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/git-prompt-info/internal/execshell"
	"github.com/temirov/git-prompt-info/internal/filesystem"
	"github.com/temirov/git-prompt-info/internal/prompt"
	"github.com/temirov/git-prompt-info/internal/promptinfo"
	"github.com/temirov/git-prompt-info/internal/utils"
	flagutils "github.com/temirov/git-prompt-info/internal/utils/flags"
	pathutils "github.com/temirov/git-prompt-info/internal/utils/path"
	"github.com/temirov/git-prompt-info/internal/weirdness"
)

const (
	applicationNameConstant                 = "git-prompt-info"
	applicationShortDescriptionConstant     = "Print repository state for a shell prompt"
	applicationLongDescriptionConstant      = "git-prompt-info reads the working tree status of the current repository and prints a single prompt line: a machine-readable record, a legacy escape-colored segment, or a colorized segment."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format."
	modeFlagNameConstant                    = "mode"
	modeFlagUsageConstant                   = "Output format."
	legacyFlagNameConstant                  = "zsh"
	legacyFlagUsageConstant                 = "Write the legacy escape-colored line (same as --mode legacy)."
	protocolFlagNameConstant                = "protocol"
	protocolFlagUsageConstant               = "Machine line protocol; v1 omits the in-progress operation flag."
	colorFlagNameConstant                   = "color"
	colorFlagUsageConstant                  = "Color emission for the segment format."
	versionFlagNameConstant                 = "version"
	versionFlagUsageConstant                = "Print the application version and exit."
	versionOutputTemplateConstant           = "%s version: %s\n"
	unknownVersionConstant                  = "(devel)"
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	promptConfigurationKeyConstant          = "prompt"
	promptModeConfigKeyConstant             = promptConfigurationKeyConstant + ".mode"
	promptProtocolConfigKeyConstant         = promptConfigurationKeyConstant + ".protocol"
	promptColorConfigKeyConstant            = promptConfigurationKeyConstant + ".color"
	promptSegmentBailLineConfigKeyConstant  = promptConfigurationKeyConstant + ".segment.bail_line"
	promptPaletteConfigKeyConstant          = promptConfigurationKeyConstant + ".palette"
	environmentPrefixConstant               = "GITPROMPT"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationModeFieldConstant          = "mode"
	configurationProtocolFieldConstant      = "protocol"
	configurationColorFieldConstant         = "color"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	flagValueErrorTemplateConstant          = "invalid --%s value: %w"
	rendererCreationErrorTemplateConstant   = "unable to create renderer: %w"
	executorCreationErrorTemplateConstant   = "unable to create git executor: %w"
	serviceCreationErrorTemplateConstant    = "unable to create prompt service: %w"
	configurationKeySeparatorConstant       = "."
	paletteMutedKeyConstant                 = "muted"
	paletteAccentKeyConstant                = "accent"
	paletteWarningKeyConstant               = "warning"
	paletteAlertKeyConstant                 = "alert"
	paletteWeirdGlyphKeyConstant            = "weird_glyph"
	paletteDirtyGlyphKeyConstant            = "dirty_glyph"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common"`
	Prompt ApplicationPromptConfiguration `mapstructure:"prompt"`
}

// ApplicationCommonConfiguration stores logging configuration.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// ApplicationPromptConfiguration selects and styles the prompt line.
type ApplicationPromptConfiguration struct {
	Mode     prompt.Mode                     `mapstructure:"mode"`
	Protocol prompt.Protocol                 `mapstructure:"protocol"`
	Color    prompt.ColorMode                `mapstructure:"color"`
	Segment  ApplicationSegmentConfiguration `mapstructure:"segment"`
	Palette  prompt.Palette                  `mapstructure:"palette"`
}

// ApplicationSegmentConfiguration holds options specific to the segment format.
type ApplicationSegmentConfiguration struct {
	BailLine bool `mapstructure:"bail_line"`
}

// ApplicationDependencies overrides collaborators, primarily for tests. Zero
// values select the operating system implementations.
type ApplicationDependencies struct {
	GitExecutor      promptinfo.GitExecutor
	FileSystem       weirdness.FileSystem
	WorkingDirectory string
	HomeExpander     *pathutils.HomeExpander
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand           *cobra.Command
	configurationLoader   *utils.ConfigurationLoader
	loggerFactory         *utils.LoggerFactory
	logger                *zap.Logger
	configuration         ApplicationConfiguration
	configurationMetadata utils.LoadedConfiguration
	dependencies          ApplicationDependencies
	configurationFilePath string
	logLevelFlagValue     string
	logFormatFlagValue    string
	modeFlagValue         string
	legacyFlagValue       bool
	protocolFlagValue     string
	colorFlagValue        string
	versionFlagValue      bool
	versionResolver       func() string
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	return NewApplicationWithDependencies(ApplicationDependencies{})
}

// NewApplicationWithDependencies assembles an application using the provided collaborators.
func NewApplicationWithDependencies(dependencies ApplicationDependencies) *Application {
	homeExpander := dependencies.HomeExpander
	if homeExpander == nil {
		homeExpander = pathutils.NewHomeExpander()
	}

	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		[]string{homeExpander.ConfigurationDirectory(applicationNameConstant)},
	)
	configurationLoader.SetHomeExpander(homeExpander)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())

	application := &Application{
		configurationLoader: configurationLoader,
		loggerFactory:       utils.NewLoggerFactory(),
		logger:              zap.NewNop(),
		dependencies:        dependencies,
		versionResolver:     resolveBuildVersion,
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			if application.versionFlagValue {
				return nil
			}
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			if application.versionFlagValue {
				_, writeError := fmt.Fprintf(command.OutOrStdout(), versionOutputTemplateConstant, applicationNameConstant, application.versionResolver())
				return writeError
			}
			return application.runPrompt(command)
		},
	}

	defaultOptions := prompt.DefaultOptions()
	flagSet := cobraCommand.Flags()
	flagSet.StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	flagutils.AddChoiceFlag(flagSet, &application.logLevelFlagValue, logLevelFlagNameConstant, string(utils.LogLevelError), []string{string(utils.LogLevelDebug), string(utils.LogLevelInfo), string(utils.LogLevelWarn), string(utils.LogLevelError)}, nil, logLevelFlagUsageConstant)
	flagutils.AddChoiceFlag(flagSet, &application.logFormatFlagValue, logFormatFlagNameConstant, string(utils.LogFormatStructured), []string{string(utils.LogFormatStructured), string(utils.LogFormatConsole)}, nil, logFormatFlagUsageConstant)
	flagutils.AddChoiceFlag(flagSet, &application.modeFlagValue, modeFlagNameConstant, string(defaultOptions.Mode), modeChoices(), flagutils.ChoiceAliases{legacyFlagNameConstant: string(prompt.ModeLegacy)}, modeFlagUsageConstant)
	flagutils.AddToggleFlag(flagSet, &application.legacyFlagValue, legacyFlagNameConstant, "", false, legacyFlagUsageConstant)
	flagutils.AddChoiceFlag(flagSet, &application.protocolFlagValue, protocolFlagNameConstant, string(defaultOptions.Protocol), []string{string(prompt.ProtocolV1), string(prompt.ProtocolV2)}, nil, protocolFlagUsageConstant)
	flagutils.AddChoiceFlag(flagSet, &application.colorFlagValue, colorFlagNameConstant, string(defaultOptions.ColorMode), []string{string(prompt.ColorAlways), string(prompt.ColorNever), string(prompt.ColorAuto)}, nil, colorFlagUsageConstant)
	flagSet.BoolVar(&application.versionFlagValue, versionFlagNameConstant, false, versionFlagUsageConstant)

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the root command with the process arguments and ensures logger flushing.
func (application *Application) Execute() error {
	return application.ExecuteWithArguments(os.Args[1:])
}

// ExecuteWithArguments runs the root command with arguments and ensures logger flushing.
func (application *Application) ExecuteWithArguments(arguments []string) error {
	normalizedArguments := flagutils.NormalizeToggleArguments(application.rootCommand.Flags(), arguments)
	if normalizedArguments == nil {
		normalizedArguments = []string{}
	}
	application.rootCommand.SetArgs(normalizedArguments)

	executionError := application.rootCommand.ExecuteContext(context.Background())
	if syncError := utils.SyncLogger(application.logger); syncError != nil && executionError == nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// SetOutput redirects the prompt line and diagnostics, primarily for tests.
func (application *Application) SetOutput(standardOutput io.Writer, standardError io.Writer) {
	application.rootCommand.SetOut(standardOutput)
	application.rootCommand.SetErr(standardError)
}

// Execute builds a fresh application instance and executes it with the process arguments.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultOptions := prompt.DefaultOptions()
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:        string(utils.LogLevelError),
		commonLogFormatConfigKeyConstant:       string(utils.LogFormatStructured),
		promptModeConfigKeyConstant:            string(defaultOptions.Mode),
		promptProtocolConfigKeyConstant:        string(defaultOptions.Protocol),
		promptColorConfigKeyConstant:           string(defaultOptions.ColorMode),
		promptSegmentBailLineConfigKeyConstant: defaultOptions.SegmentBailLine,
	}
	for paletteKey, paletteValue := range paletteDefaultValues(defaultOptions.Palette) {
		defaultValues[promptPaletteConfigKeyConstant+configurationKeySeparatorConstant+paletteKey] = paletteValue
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}
	application.configurationMetadata = loadedConfiguration

	if flagErrors := application.applyFlagOverrides(command); flagErrors != nil {
		return flagErrors
	}

	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
		command.ErrOrStderr(),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}
	application.logger = logger

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationModeFieldConstant, string(application.configuration.Prompt.Mode)),
		zap.String(configurationProtocolFieldConstant, string(application.configuration.Prompt.Protocol)),
		zap.String(configurationColorFieldConstant, string(application.configuration.Prompt.Color)),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	return nil
}

// applyFlagOverrides copies explicitly set flags over the loaded configuration.
// An explicit --mode wins over --zsh.
func (application *Application) applyFlagOverrides(command *cobra.Command) error {
	if flagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}
	if flagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	if flagChanged(command, legacyFlagNameConstant) && application.legacyFlagValue {
		application.configuration.Prompt.Mode = prompt.ModeLegacy
	}
	if flagChanged(command, modeFlagNameConstant) {
		mode, parseError := prompt.ParseMode(application.modeFlagValue)
		if parseError != nil {
			return fmt.Errorf(flagValueErrorTemplateConstant, modeFlagNameConstant, parseError)
		}
		application.configuration.Prompt.Mode = mode
	}
	if flagChanged(command, protocolFlagNameConstant) {
		protocol, parseError := prompt.ParseProtocol(application.protocolFlagValue)
		if parseError != nil {
			return fmt.Errorf(flagValueErrorTemplateConstant, protocolFlagNameConstant, parseError)
		}
		application.configuration.Prompt.Protocol = protocol
	}
	if flagChanged(command, colorFlagNameConstant) {
		colorMode, parseError := prompt.ParseColorMode(application.colorFlagValue)
		if parseError != nil {
			return fmt.Errorf(flagValueErrorTemplateConstant, colorFlagNameConstant, parseError)
		}
		application.configuration.Prompt.Color = colorMode
	}

	return nil
}

func (application *Application) promptOptions() prompt.Options {
	promptConfiguration := application.configuration.Prompt
	return prompt.Options{
		Mode:            promptConfiguration.Mode,
		Protocol:        promptConfiguration.Protocol,
		ColorMode:       promptConfiguration.Color,
		Palette:         promptConfiguration.Palette,
		SegmentBailLine: promptConfiguration.Segment.BailLine,
	}
}

func (application *Application) runPrompt(command *cobra.Command) error {
	renderer, rendererError := prompt.NewRenderer(application.promptOptions())
	if rendererError != nil {
		return fmt.Errorf(rendererCreationErrorTemplateConstant, rendererError)
	}

	gitExecutor := application.dependencies.GitExecutor
	if gitExecutor == nil {
		shellExecutor, executorError := execshell.NewShellExecutor(application.logger, execshell.NewOSCommandRunner())
		if executorError != nil {
			return fmt.Errorf(executorCreationErrorTemplateConstant, executorError)
		}
		gitExecutor = shellExecutor
	}

	fileSystem := application.dependencies.FileSystem
	if fileSystem == nil {
		fileSystem = filesystem.OSFileSystem{}
	}

	service, serviceError := promptinfo.NewService(promptinfo.ServiceDependencies{
		GitExecutor: gitExecutor,
		FileSystem:  fileSystem,
		Logger:      application.logger,
	})
	if serviceError != nil {
		return fmt.Errorf(serviceCreationErrorTemplateConstant, serviceError)
	}

	return service.Run(command.Context(), application.dependencies.WorkingDirectory, renderer, command.OutOrStdout())
}

func modeChoices() []string {
	modes := prompt.Modes()
	choices := make([]string, 0, len(modes))
	for _, mode := range modes {
		choices = append(choices, string(mode))
	}
	return choices
}

func paletteDefaultValues(palette prompt.Palette) map[string]any {
	return map[string]any{
		paletteMutedKeyConstant:      palette.Muted,
		paletteAccentKeyConstant:     palette.Accent,
		paletteWarningKeyConstant:    palette.Warning,
		paletteAlertKeyConstant:      palette.Alert,
		paletteWeirdGlyphKeyConstant: palette.WeirdGlyph,
		paletteDirtyGlyphKeyConstant: palette.DirtyGlyph,
	}
}

func flagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	for _, flagSet := range []*pflag.FlagSet{command.Flags(), command.PersistentFlags(), command.InheritedFlags()} {
		if flagSet != nil && flagSet.Changed(flagName) {
			return true
		}
	}
	return false
}

func resolveBuildVersion() string {
	buildInformation, available := debug.ReadBuildInfo()
	if !available {
		return unknownVersionConstant
	}
	version := strings.TrimSpace(buildInformation.Main.Version)
	if len(version) == 0 {
		return unknownVersionConstant
	}
	return version
}

package promptinfo

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/temirov/git-prompt-info/internal/execshell"
	"github.com/temirov/git-prompt-info/internal/gitstatus"
	"github.com/temirov/git-prompt-info/internal/prompt"
	"github.com/temirov/git-prompt-info/internal/weirdness"
)

const (
	gitNoOptionalLocksFlagConstant           = "--no-optional-locks"
	gitStatusSubcommandConstant              = "status"
	gitBranchFlagConstant                    = "--branch"
	gitPorcelainVersionTwoFlagConstant       = "--porcelain=v2"
	gitRevParseSubcommandConstant            = "rev-parse"
	gitDirectoryFlagConstant                 = "--git-dir"
	gitOptionalLocksEnvironmentNameConstant  = "GIT_OPTIONAL_LOCKS"
	gitOptionalLocksEnvironmentValueConstant = "0"
	gitExecutorMissingMessageConstant        = "git executor not configured"
	fileSystemMissingMessageConstant         = "filesystem not configured"
	rendererMissingMessageConstant           = "renderer not configured"
	statusParseErrorTemplateConstant         = "unable to interpret repository status: %w"
	renderErrorTemplateConstant              = "unable to write prompt: %w"
	stateTransitionMessageConstant           = "prompt state transition"
	repositoryUnavailableMessageConstant     = "repository information unavailable"
	repositoryCollectedMessageConstant       = "repository state collected"
	logFieldStateConstant                    = "state"
	logFieldHeadConstant                     = "head"
	logFieldCommitConstant                   = "commit"
	logFieldDirtyConstant                    = "dirty"
	logFieldWeirdConstant                    = "weird"
	logFieldOperationConstant                = "operation"
	logFieldMetadataDirectoryConstant        = "metadata_directory"
)

// State names a step of the collection state machine.
type State string

// Collection states.
const (
	StateQueryStatus            State = "QUERY_STATUS"
	StateParseState             State = "PARSE_STATE"
	StateQueryMetadataDirectory State = "QUERY_METADATA_DIR"
	StateDetectWeird            State = "DETECT_WEIRD"
	StateRender                 State = "RENDER"
	StateBail                   State = "BAIL"
	StateDone                   State = "DONE"
)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrFileSystemNotConfigured indicates the filesystem dependency was missing.
var ErrFileSystemNotConfigured = errors.New(fileSystemMissingMessageConstant)

// ErrRendererNotConfigured indicates Run was called without a renderer.
var ErrRendererNotConfigured = errors.New(rendererMissingMessageConstant)

// GitExecutor exposes the git invocation used by the service.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// ServiceDependencies enumerates collaborators required by the service.
type ServiceDependencies struct {
	GitExecutor GitExecutor
	FileSystem  weirdness.FileSystem
	Logger      *zap.Logger
}

// Outcome is the result of one collection. Available is false when either
// query failed, in which case State carries no information.
type Outcome struct {
	Available bool
	State     gitstatus.RepositoryState
}

// Service collects repository state for a single prompt draw.
type Service struct {
	executor GitExecutor
	detector *weirdness.Detector
	logger   *zap.Logger
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.GitExecutor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	if dependencies.FileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}

	detector, detectorError := weirdness.NewDetector(dependencies.FileSystem)
	if detectorError != nil {
		return nil, detectorError
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{executor: dependencies.GitExecutor, detector: detector, logger: logger}, nil
}

// Collect runs the status and metadata directory queries in workingDirectory
// (the process directory when empty). Query failures produce an unavailable
// Outcome and a nil error; only malformed status output is an error.
func (service *Service) Collect(executionContext context.Context, workingDirectory string) (Outcome, error) {
	service.transition(StateQueryStatus)
	statusResult, statusError := service.executor.ExecuteGit(executionContext, service.commandDetails(workingDirectory, gitNoOptionalLocksFlagConstant, gitStatusSubcommandConstant, gitBranchFlagConstant, gitPorcelainVersionTwoFlagConstant))
	if statusError != nil {
		return service.bail(statusError), nil
	}

	service.transition(StateParseState)
	repositoryState, parseError := gitstatus.Parse(statusResult.StandardOutput)
	if parseError != nil {
		return Outcome{}, fmt.Errorf(statusParseErrorTemplateConstant, parseError)
	}

	service.transition(StateQueryMetadataDirectory)
	metadataResult, metadataError := service.executor.ExecuteGit(executionContext, service.commandDetails(workingDirectory, gitRevParseSubcommandConstant, gitDirectoryFlagConstant))
	if metadataError != nil {
		return service.bail(metadataError), nil
	}

	metadataDirectory, resolveError := service.detector.ResolveMetadataDirectory(metadataResult.StandardOutput, workingDirectory)
	if resolveError != nil {
		return service.bail(resolveError), nil
	}

	service.transition(StateDetectWeird)
	repositoryState = repositoryState.WithOperation(service.detector.Detect(metadataDirectory))

	service.logger.Debug(
		repositoryCollectedMessageConstant,
		zap.String(logFieldHeadConstant, repositoryState.HeadDescriptor),
		zap.String(logFieldCommitConstant, repositoryState.AbbreviatedCommit),
		zap.Bool(logFieldDirtyConstant, repositoryState.IsDirty),
		zap.Bool(logFieldWeirdConstant, repositoryState.IsWeird),
		zap.String(logFieldOperationConstant, string(repositoryState.Operation)),
		zap.String(logFieldMetadataDirectoryConstant, metadataDirectory),
	)

	return Outcome{Available: true, State: repositoryState}, nil
}

// Run collects the Outcome and writes it with renderer.
func (service *Service) Run(executionContext context.Context, workingDirectory string, renderer prompt.Renderer, writer io.Writer) error {
	if renderer == nil {
		return ErrRendererNotConfigured
	}

	outcome, collectError := service.Collect(executionContext, workingDirectory)
	if collectError != nil {
		return collectError
	}

	service.transition(StateRender)
	var renderError error
	if outcome.Available {
		renderError = renderer.RenderAvailable(writer, outcome.State)
	} else {
		renderError = renderer.RenderUnavailable(writer)
	}
	if renderError != nil {
		return fmt.Errorf(renderErrorTemplateConstant, renderError)
	}

	service.transition(StateDone)
	return nil
}

func (service *Service) commandDetails(workingDirectory string, arguments ...string) execshell.CommandDetails {
	return execshell.CommandDetails{
		Arguments:            arguments,
		WorkingDirectory:     workingDirectory,
		EnvironmentVariables: map[string]string{gitOptionalLocksEnvironmentNameConstant: gitOptionalLocksEnvironmentValueConstant},
	}
}

func (service *Service) bail(cause error) Outcome {
	service.logger.Debug(repositoryUnavailableMessageConstant, zap.String(logFieldStateConstant, string(StateBail)), zap.Error(cause))
	return Outcome{Available: false}
}

func (service *Service) transition(state State) {
	service.logger.Debug(stateTransitionMessageConstant, zap.String(logFieldStateConstant, string(state)))
}

package docs_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/git-prompt-info/cmd/cli"
	"github.com/temirov/git-prompt-info/internal/prompt"
	"github.com/temirov/git-prompt-info/internal/utils"
)

const (
	readmeFileNameConstant           = "README.md"
	yamlFenceStartConstant           = "```yaml"
	yamlFenceEndConstant             = "```"
	configHeaderMarkerConstant       = "# config.yaml"
	readmeSnippetFileNameConstant    = "config.yaml"
	parentDirectoryReferenceConstant = ".."
	missingHeaderMessageConstant     = "README example missing config header marker"
	missingStartFenceMessageConstant = "README example missing yaml fence start"
	missingEndFenceMessageConstant   = "README example missing yaml fence end"
	testEnvironmentPrefixConstant    = "GITPROMPTDOCS"
)

func extractReadmeConfiguration(testInstance *testing.T) string {
	testInstance.Helper()

	workingDirectory, workingDirectoryError := os.Getwd()
	require.NoError(testInstance, workingDirectoryError)

	contentBytes, readError := os.ReadFile(filepath.Join(workingDirectory, parentDirectoryReferenceConstant, readmeFileNameConstant))
	require.NoError(testInstance, readError)

	contentText := string(contentBytes)
	headerIndex := strings.Index(contentText, configHeaderMarkerConstant)
	require.NotEqual(testInstance, -1, headerIndex, missingHeaderMessageConstant)

	fenceStartIndex := strings.LastIndex(contentText[:headerIndex], yamlFenceStartConstant)
	require.NotEqual(testInstance, -1, fenceStartIndex, missingStartFenceMessageConstant)

	fenceEndRelativeIndex := strings.Index(contentText[headerIndex:], yamlFenceEndConstant)
	require.NotEqual(testInstance, -1, fenceEndRelativeIndex, missingEndFenceMessageConstant)

	return strings.TrimSpace(contentText[fenceStartIndex+len(yamlFenceStartConstant) : headerIndex+fenceEndRelativeIndex])
}

func TestReadmeConfigurationMatchesEmbeddedDefaults(testInstance *testing.T) {
	snippetContent := extractReadmeConfiguration(testInstance)

	var readmeDocument map[string]any
	require.NoError(testInstance, yaml.Unmarshal([]byte(snippetContent), &readmeDocument))

	embeddedContent, _ := cli.EmbeddedDefaultConfiguration()
	var embeddedDocument map[string]any
	require.NoError(testInstance, yaml.Unmarshal(embeddedContent, &embeddedDocument))

	require.Equal(testInstance, embeddedDocument, readmeDocument)
}

func TestReadmeConfigurationLoads(testInstance *testing.T) {
	snippetPath := filepath.Join(testInstance.TempDir(), readmeSnippetFileNameConstant)
	require.NoError(testInstance, os.WriteFile(snippetPath, []byte(extractReadmeConfiguration(testInstance)), 0o600))

	configurationLoader := utils.NewConfigurationLoader("config", "yaml", testEnvironmentPrefixConstant, nil)

	var configuration cli.ApplicationConfiguration
	metadata, loadError := configurationLoader.LoadConfiguration(snippetPath, nil, &configuration)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, snippetPath, metadata.ConfigFileUsed)

	defaultOptions := prompt.DefaultOptions()
	require.Equal(testInstance, defaultOptions.Mode, configuration.Prompt.Mode)
	require.Equal(testInstance, defaultOptions.Protocol, configuration.Prompt.Protocol)
	require.Equal(testInstance, defaultOptions.ColorMode, configuration.Prompt.Color)
	require.Equal(testInstance, defaultOptions.Palette, configuration.Prompt.Palette)
	require.Equal(testInstance, string(utils.LogLevelError), configuration.Common.LogLevel)
}

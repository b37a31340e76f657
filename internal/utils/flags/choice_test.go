package flags

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestFormatChoiceUsage(testInstance *testing.T) {
	testCases := []struct {
		name           string
		defaultChoice  string
		choices        []string
		description    string
		expectedOutput string
	}{
		{
			name:           "DefaultFirstChoice",
			defaultChoice:  "machine",
			choices:        []string{"machine", "legacy", "segment"},
			description:    "Output format.",
			expectedOutput: "`<MACHINE|legacy|segment>` Output format.",
		},
		{
			name:           "DefaultLastChoice",
			defaultChoice:  "v2",
			choices:        []string{"v1", "v2"},
			description:    "Machine line protocol.",
			expectedOutput: "`<v1|V2>` Machine line protocol.",
		},
		{
			name:           "EmptyDescription",
			defaultChoice:  "always",
			choices:        []string{"always", "never", "auto"},
			description:    "",
			expectedOutput: "`<ALWAYS|never|auto>`",
		},
		{
			name:           "DuplicateChoicesIgnored",
			defaultChoice:  "never",
			choices:        []string{"never", "never", "auto", "AUTO"},
			description:    "Select between options.",
			expectedOutput: "`<NEVER|auto>` Select between options.",
		},
		{
			name:           "WhitespaceTrimmed",
			defaultChoice:  "segment",
			choices:        []string{" machine ", " segment "},
			description:    "Pick a renderer.",
			expectedOutput: "`<machine|SEGMENT>` Pick a renderer.",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			actual := FormatChoiceUsage(testCase.defaultChoice, testCase.choices, testCase.description)
			require.Equal(testInstance, testCase.expectedOutput, actual)
		})
	}
}

func TestAddChoiceFlagParsesValues(testInstance *testing.T) {
	testCases := []struct {
		name            string
		arguments       []string
		expectError     bool
		expectedValue   string
		expectedChanged bool
	}{
		{name: "DefaultApplied", arguments: []string{}, expectedValue: "machine"},
		{name: "ExplicitChoice", arguments: []string{"--mode", "segment"}, expectedValue: "segment", expectedChanged: true},
		{name: "CaseInsensitive", arguments: []string{"--mode=LEGACY"}, expectedValue: "legacy", expectedChanged: true},
		{name: "AliasResolved", arguments: []string{"--mode", "zsh"}, expectedValue: "legacy", expectedChanged: true},
		{name: "UnknownRejected", arguments: []string{"--mode", "fancy"}, expectError: true, expectedValue: "machine"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			command := &cobra.Command{}

			var modeValue string
			AddChoiceFlag(command.Flags(), &modeValue, "mode", "machine", []string{"machine", "legacy", "segment"}, ChoiceAliases{"zsh": "legacy"}, "Output format.")

			parseError := command.ParseFlags(testCase.arguments)
			if testCase.expectError {
				require.Error(testInstance, parseError)
			} else {
				require.NoError(testInstance, parseError)
			}

			require.Equal(testInstance, testCase.expectedValue, modeValue)

			flag := command.Flags().Lookup("mode")
			require.NotNil(testInstance, flag)
			require.Equal(testInstance, testCase.expectedChanged, flag.Changed)
			require.Equal(testInstance, "`<MACHINE|legacy|segment>` Output format.", flag.Usage)
		})
	}
}

package flags

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

const (
	choicePlaceholderPrefix         = "<"
	choicePlaceholderSuffix         = ">"
	choiceSeparatorLiteral          = "|"
	choiceUsageEmptyTemplate        = "`%s`"
	choiceUsageFullTemplate         = "`%s` %s"
	choiceParseErrorTemplate        = "invalid value %q (expected one of %s)"
	choiceExpectedSeparatorConstant = ", "
	choiceValueTypeConstant         = "string"
)

// ChoiceAliases maps accepted alternative spellings to their canonical choice.
type ChoiceAliases map[string]string

// AddChoiceFlag registers a string flag restricted to choices. Values are
// matched case-insensitively and stored in their canonical lower-case form;
// aliases resolve to the choice they name.
func AddChoiceFlag(flagSet *pflag.FlagSet, target *string, name string, defaultChoice string, choices []string, aliases ChoiceAliases, description string) {
	if flagSet == nil || len(name) == 0 {
		return
	}

	choiceValue := &choiceFlagValue{choices: normalizeChoices(choices), aliases: aliases, target: target}
	choiceValue.current = strings.ToLower(strings.TrimSpace(defaultChoice))
	if target != nil {
		*target = choiceValue.current
	}

	flagSet.Var(choiceValue, name, FormatChoiceUsage(defaultChoice, choices, description))
}

// FormatChoiceUsage builds a usage string where the default option is capitalized inside a placeholder.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	placeholder := buildChoicePlaceholder(defaultChoice, choices)
	if len(strings.TrimSpace(description)) == 0 {
		return fmt.Sprintf(choiceUsageEmptyTemplate, placeholder)
	}
	return fmt.Sprintf(choiceUsageFullTemplate, placeholder, description)
}

type choiceFlagValue struct {
	choices []string
	aliases ChoiceAliases
	current string
	target  *string
}

func (value *choiceFlagValue) Set(rawValue string) error {
	normalizedValue := strings.ToLower(strings.TrimSpace(rawValue))
	if canonicalValue, isAlias := value.aliases[normalizedValue]; isAlias {
		normalizedValue = canonicalValue
	}

	for _, choice := range value.choices {
		if choice != normalizedValue {
			continue
		}
		value.current = normalizedValue
		if value.target != nil {
			*value.target = normalizedValue
		}
		return nil
	}

	return fmt.Errorf(choiceParseErrorTemplate, rawValue, strings.Join(value.choices, choiceExpectedSeparatorConstant))
}

func (value *choiceFlagValue) String() string {
	if value == nil {
		return ""
	}
	return value.current
}

func (value *choiceFlagValue) Type() string {
	return choiceValueTypeConstant
}

func normalizeChoices(choices []string) []string {
	normalized := make([]string, 0, len(choices))
	for _, choice := range choices {
		trimmedChoice := strings.ToLower(strings.TrimSpace(choice))
		if len(trimmedChoice) == 0 {
			continue
		}
		normalized = append(normalized, trimmedChoice)
	}
	return normalized
}

func buildChoicePlaceholder(defaultChoice string, choices []string) string {
	highlightedChoices := highlightDefaultChoice(defaultChoice, choices)
	return choicePlaceholderPrefix + strings.Join(highlightedChoices, choiceSeparatorLiteral) + choicePlaceholderSuffix
}

func highlightDefaultChoice(defaultChoice string, choices []string) []string {
	normalizedDefault := strings.ToLower(strings.TrimSpace(defaultChoice))
	highlighted := make([]string, 0, len(choices))
	seen := make(map[string]struct{}, len(choices))

	for _, choice := range choices {
		trimmedChoice := strings.TrimSpace(choice)
		if len(trimmedChoice) == 0 {
			continue
		}

		normalizedChoice := strings.ToLower(trimmedChoice)
		if _, exists := seen[normalizedChoice]; exists {
			continue
		}

		displayValue := trimmedChoice
		if normalizedChoice == normalizedDefault {
			displayValue = strings.ToUpper(trimmedChoice)
		}

		highlighted = append(highlighted, displayValue)
		seen[normalizedChoice] = struct{}{}
	}

	return highlighted
}

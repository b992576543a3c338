package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

const (
	copyFlagTypeName            = "copy"
	invalidCopyFlagValueMessage = "invalid copy flag value '%s'"
)

// copyFlagCommandNames lists the subcommands accepting --copy, so that
// "--copy tree" is not mistaken for a flag value.
var copyFlagCommandNames = map[string]struct{}{
	treeCommandName: {},
	treeAlias:       {},
}

func isCopyFlagCommand(argument string) bool {
	normalized := strings.ToLower(strings.TrimSpace(argument))
	_, known := copyFlagCommandNames[normalized]
	return known
}

// interpretCopyFlagLiteral maps an argument onto a boolean. An empty value means true.
func interpretCopyFlagLiteral(input string) (bool, bool) {
	if strings.TrimSpace(input) == "" {
		return true, true
	}
	return parseBooleanLiteral(input)
}

type copyFlagValue struct {
	target *bool
}

func (value *copyFlagValue) Set(input string) error {
	if value == nil || value.target == nil {
		return fmt.Errorf(invalidCopyFlagValueMessage, input)
	}
	booleanValue, ok := interpretCopyFlagLiteral(input)
	if !ok {
		return fmt.Errorf(invalidCopyFlagValueMessage, input)
	}
	*value.target = booleanValue
	return nil
}

func (value *copyFlagValue) String() string {
	if value == nil || value.target == nil || !*value.target {
		return "false"
	}
	return "true"
}

func (value *copyFlagValue) Type() string {
	return copyFlagTypeName
}

func registerCopyFlag(flagSet *pflag.FlagSet, target *bool) {
	if flagSet == nil || target == nil {
		return
	}
	*target = false
	flagSet.Var(&copyFlagValue{target: target}, copyFlagName, copyFlagDescription)
	if lookup := flagSet.Lookup(copyFlagName); lookup != nil {
		lookup.NoOptDefVal = booleanFlagTrueLiteral
	}
}

// normalizeCopyFlagArguments joins "--copy VALUE" into "--copy=VALUE" when VALUE
// is a boolean literal, leaving paths and subcommand names positional.
func normalizeCopyFlagArguments(arguments []string) []string {
	if len(arguments) == 0 {
		return arguments
	}
	normalized := make([]string, 0, len(arguments))
	commandContext := false
	for index := 0; index < len(arguments); index++ {
		current := arguments[index]
		if current == "--" {
			normalized = append(normalized, arguments[index:]...)
			break
		}
		if current != "--"+copyFlagName {
			normalized = append(normalized, current)
			if !commandContext && !strings.HasPrefix(current, "-") && isCopyFlagCommand(current) {
				commandContext = true
			}
			continue
		}
		nextIndex := index + 1
		if nextIndex >= len(arguments) || strings.HasPrefix(arguments[nextIndex], "-") {
			normalized = append(normalized, fmt.Sprintf("--%s=true", copyFlagName))
			continue
		}
		nextValue := arguments[nextIndex]
		if booleanValue, ok := interpretCopyFlagLiteral(nextValue); ok {
			normalized = append(normalized, fmt.Sprintf("--%s=%t", copyFlagName, booleanValue))
			index = nextIndex
			continue
		}
		if commandContext || isCopyFlagCommand(nextValue) {
			normalized = append(normalized, current)
			continue
		}
		normalized = append(normalized, fmt.Sprintf("--%s=%s", copyFlagName, nextValue))
		index = nextIndex
	}
	return normalized
}

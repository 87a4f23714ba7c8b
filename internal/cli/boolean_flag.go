package cli

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	booleanFlagTypeName    = "bool"
	booleanFlagTrueLiteral = "true"
	longFlagPrefix         = "--"
	endOfFlagsMarker       = "--"

	invalidBooleanValueFormat = "invalid boolean value %q for --%s; accepted values: true, false, yes, no, on, off, 1, 0"
)

var booleanFlagLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

// parseBooleanLiteral accepts the literals above in any case; an empty value means true.
func parseBooleanLiteral(input string) (bool, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return true, true
	}
	parsed, known := booleanFlagLiterals[normalized]
	return parsed, known
}

// booleanFlagValue is a pflag.Value that accepts the literals in booleanFlagLiterals.
type booleanFlagValue struct {
	target  *bool
	flagKey string
}

func (value *booleanFlagValue) Set(input string) error {
	parsed, known := parseBooleanLiteral(input)
	if !known {
		return errors.Newf(invalidBooleanValueFormat, input, value.flagKey)
	}
	*value.target = parsed
	return nil
}

func (value *booleanFlagValue) String() string {
	if value == nil || value.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*value.target)
}

func (value *booleanFlagValue) Type() string {
	return booleanFlagTypeName
}

// registerBooleanFlag defines a boolean flag usable both bare and as "--name value".
func registerBooleanFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	*target = defaultValue
	flagSet.Var(&booleanFlagValue{target: target, flagKey: name}, name, usage)
	registeredFlag := flagSet.Lookup(name)
	registeredFlag.DefValue = strconv.FormatBool(defaultValue)
	registeredFlag.NoOptDefVal = booleanFlagTrueLiteral
}

// normalizeBooleanFlagArguments rewrites "--name literal" into "--name=literal"
// for every boolean flag of command and its subcommands, so the literal is not
// taken for a positional argument.
func normalizeBooleanFlagArguments(command *cobra.Command, arguments []string) []string {
	booleanFlags := map[string]struct{}{}
	collectBooleanFlagNames(command, booleanFlags)
	if len(booleanFlags) == 0 {
		return arguments
	}
	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		currentArgument := arguments[index]
		if currentArgument == endOfFlagsMarker {
			return append(normalized, arguments[index:]...)
		}
		if index+1 < len(arguments) && isBareBooleanFlag(currentArgument, booleanFlags) {
			if _, known := parseBooleanLiteral(arguments[index+1]); known && arguments[index+1] != "" && !strings.HasPrefix(arguments[index+1], "-") {
				normalized = append(normalized, currentArgument+"="+arguments[index+1])
				index++
				continue
			}
		}
		normalized = append(normalized, currentArgument)
	}
	return normalized
}

func isBareBooleanFlag(argument string, booleanFlags map[string]struct{}) bool {
	if !strings.HasPrefix(argument, longFlagPrefix) || strings.Contains(argument, "=") {
		return false
	}
	_, isBoolean := booleanFlags[strings.TrimPrefix(argument, longFlagPrefix)]
	return isBoolean
}

func collectBooleanFlagNames(command *cobra.Command, target map[string]struct{}) {
	collect := func(flag *pflag.Flag) {
		if flag.Value.Type() == booleanFlagTypeName {
			target[flag.Name] = struct{}{}
		}
	}
	command.PersistentFlags().VisitAll(collect)
	command.Flags().VisitAll(collect)
	for _, child := range command.Commands() {
		collectBooleanFlagNames(child, target)
	}
}

package launch

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

const (
	planPathRequiredMessageConstant          = "launch plan path must be provided"
	planLoadErrorTemplateConstant            = "failed to load launch plan: %w"
	planParseErrorTemplateConstant           = "failed to parse launch plan: %w"
	planEmptyInvocationsMessageConstant      = "launch plan must define at least one invocation"
	planExecutableMissingMessageConstant     = "launch plan invocation missing executable"
	planOptionsDecodeErrorTemplateConstant   = "failed to decode invocation options for %s: %w"
	defaultLogsTrackerSubcommandConstant     = "track-logs"
	defaultLochnessTrackerSubcommandConstant = "track-lochness"
	defaultNetworkFlagConstant               = "--network"
	defaultPrescientNetworkNameConstant      = "Prescient"
	defaultProNETNetworkNameConstant         = "ProNET"
)

// InvocationOptions carries the declarative modifiers of a planned invocation.
type InvocationOptions struct {
	Arguments   []string          `mapstructure:"arguments"`
	Environment map[string]string `mapstructure:"environment"`
}

// Invocation names one executable together with its decoded options.
type Invocation struct {
	Executable string
	Options    InvocationOptions
}

// Plan lists the invocations the launcher executes in order.
type Plan struct {
	Invocations []Invocation
}

type planDocument struct {
	Invocations []invocationDocument `yaml:"invocations"`
}

type invocationDocument struct {
	Executable string         `yaml:"executable"`
	Options    map[string]any `yaml:"with"`
}

// LoadPlan reads an invocation plan from a YAML file and validates it.
func LoadPlan(filePath string) (Plan, error) {
	trimmedPath := strings.TrimSpace(filePath)
	if len(trimmedPath) == 0 {
		return Plan{}, errors.New(planPathRequiredMessageConstant)
	}

	contentBytes, readError := os.ReadFile(trimmedPath)
	if readError != nil {
		return Plan{}, fmt.Errorf(planLoadErrorTemplateConstant, readError)
	}

	var document planDocument
	if unmarshalError := yaml.Unmarshal(contentBytes, &document); unmarshalError != nil {
		return Plan{}, fmt.Errorf(planParseErrorTemplateConstant, unmarshalError)
	}
	if len(document.Invocations) == 0 {
		return Plan{}, errors.New(planEmptyInvocationsMessageConstant)
	}

	invocations := make([]Invocation, 0, len(document.Invocations))
	for documentIndex := range document.Invocations {
		trimmedExecutable := strings.TrimSpace(document.Invocations[documentIndex].Executable)
		if len(trimmedExecutable) == 0 {
			return Plan{}, errors.New(planExecutableMissingMessageConstant)
		}

		var decodedOptions InvocationOptions
		if decodeError := mapstructure.Decode(document.Invocations[documentIndex].Options, &decodedOptions); decodeError != nil {
			return Plan{}, fmt.Errorf(planOptionsDecodeErrorTemplateConstant, trimmedExecutable, decodeError)
		}

		invocations = append(invocations, Invocation{Executable: trimmedExecutable, Options: decodedOptions})
	}

	return Plan{Invocations: invocations}, nil
}

// DefaultPlan returns the built-in invocation order: the log tracker followed by
// one lochness check per network.
func DefaultPlan(selfExecutablePath string) Plan {
	return Plan{
		Invocations: []Invocation{
			{
				Executable: selfExecutablePath,
				Options:    InvocationOptions{Arguments: []string{defaultLogsTrackerSubcommandConstant}},
			},
			{
				Executable: selfExecutablePath,
				Options:    InvocationOptions{Arguments: []string{defaultLochnessTrackerSubcommandConstant, defaultNetworkFlagConstant, defaultPrescientNetworkNameConstant}},
			},
			{
				Executable: selfExecutablePath,
				Options:    InvocationOptions{Arguments: []string{defaultLochnessTrackerSubcommandConstant, defaultNetworkFlagConstant, defaultProNETNetworkNameConstant}},
			},
		},
	}
}

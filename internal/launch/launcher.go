package launch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/avpipeline/tracker/internal/execshell"
)

const (
	launcherLoggerRequiredMessageConstant    = "launcher requires a logger"
	launcherExecutorRequiredMessageConstant  = "launcher requires a tracker executor"
	launcherRegistrarRequiredMessageConstant = "launcher requires a trusted path registrar when registration is enabled"
	repositoryRootRequiredMessageConstant    = "launcher requires a repository root"
	repositoryRootMissingTemplateConstant    = "repository root %s does not exist: %w"
	repositoryRootNotDirectoryTemplate       = "repository root %s is not a directory"
	environmentFileErrorTemplateConstant     = "failed to load environment file %s: %w"
	trustedPathErrorTemplateConstant         = "failed to register trusted path %s: %w"
	invocationFailedTemplateConstant         = "invocation %s failed: %w"
	homeEnvironmentVariableNameConstant      = "HOME"
	pathEnvironmentVariableNameConstant      = "PATH"
	repoRootEnvironmentVariableNameConstant  = "REPO_ROOT"
	environmentBinDirectoryNameConstant      = "bin"
	launchStartedMessageConstant             = "starting launch plan"
	invocationStartedMessageConstant         = "running invocation"
	launchCompletedMessageConstant           = "launch plan completed"
	logFieldRepositoryRootConstant           = "repository_root"
	logFieldEnvironmentNameConstant          = "environment_name"
	logFieldInvocationCountConstant          = "invocation_count"
	logFieldExecutableConstant               = "executable"
	logFieldArgumentsConstant                = "arguments"
	logFieldTrustedPathAddedConstant         = "trusted_path_added"
)

// Options configures a launch run.
type Options struct {
	RepositoryRoot      string
	EnvironmentName     string
	EnvironmentPath     string
	EnvironmentFilePath string
	HomeOverride        string
	RegisterTrustedPath bool
}

// TrackerExecutor runs one tracker executable to completion.
type TrackerExecutor interface {
	ExecuteTracker(executionContext context.Context, executablePath string, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// TrustedPathRegistrar registers a repository root as a git trusted path.
type TrustedPathRegistrar interface {
	EnsureTrustedDirectory(executionContext context.Context, repositoryPath string) (bool, error)
}

// Launcher prepares the runtime environment and executes plan invocations sequentially.
type Launcher struct {
	logger               *zap.Logger
	trackerExecutor      TrackerExecutor
	trustedPathRegistrar TrustedPathRegistrar
}

// NewLauncher constructs a Launcher instance.
func NewLauncher(logger *zap.Logger, trackerExecutor TrackerExecutor, trustedPathRegistrar TrustedPathRegistrar) (*Launcher, error) {
	if logger == nil {
		return nil, errors.New(launcherLoggerRequiredMessageConstant)
	}
	if trackerExecutor == nil {
		return nil, errors.New(launcherExecutorRequiredMessageConstant)
	}

	return &Launcher{
		logger:               logger,
		trackerExecutor:      trackerExecutor,
		trustedPathRegistrar: trustedPathRegistrar,
	}, nil
}

// Launch validates the repository root, prepares the child environment, and runs
// every plan invocation in order. The first failing invocation halts the run.
func (launcher *Launcher) Launch(executionContext context.Context, options Options, plan Plan) error {
	trimmedRoot := strings.TrimSpace(options.RepositoryRoot)
	if len(trimmedRoot) == 0 {
		return errors.New(repositoryRootRequiredMessageConstant)
	}

	rootInformation, statError := os.Stat(trimmedRoot)
	if statError != nil {
		return fmt.Errorf(repositoryRootMissingTemplateConstant, trimmedRoot, statError)
	}
	if !rootInformation.IsDir() {
		return fmt.Errorf(repositoryRootNotDirectoryTemplate, trimmedRoot)
	}

	if options.RegisterTrustedPath {
		if launcher.trustedPathRegistrar == nil {
			return errors.New(launcherRegistrarRequiredMessageConstant)
		}
		registrationAdded, registrationError := launcher.trustedPathRegistrar.EnsureTrustedDirectory(executionContext, trimmedRoot)
		if registrationError != nil {
			return fmt.Errorf(trustedPathErrorTemplateConstant, trimmedRoot, registrationError)
		}
		launcher.logger.Debug(
			launchStartedMessageConstant,
			zap.String(logFieldRepositoryRootConstant, trimmedRoot),
			zap.Bool(logFieldTrustedPathAddedConstant, registrationAdded),
		)
	}

	childEnvironment, environmentError := launcher.buildChildEnvironment(options, trimmedRoot)
	if environmentError != nil {
		return environmentError
	}

	launcher.logger.Info(
		launchStartedMessageConstant,
		zap.String(logFieldRepositoryRootConstant, trimmedRoot),
		zap.String(logFieldEnvironmentNameConstant, options.EnvironmentName),
		zap.Int(logFieldInvocationCountConstant, len(plan.Invocations)),
	)

	for invocationIndex := range plan.Invocations {
		invocation := plan.Invocations[invocationIndex]

		invocationEnvironment := make(map[string]string, len(childEnvironment)+len(invocation.Options.Environment))
		for variableName, variableValue := range childEnvironment {
			invocationEnvironment[variableName] = variableValue
		}
		for variableName, variableValue := range invocation.Options.Environment {
			invocationEnvironment[variableName] = variableValue
		}

		launcher.logger.Info(
			invocationStartedMessageConstant,
			zap.String(logFieldExecutableConstant, invocation.Executable),
			zap.Strings(logFieldArgumentsConstant, invocation.Options.Arguments),
		)

		commandDetails := execshell.CommandDetails{
			Arguments:            invocation.Options.Arguments,
			WorkingDirectory:     trimmedRoot,
			EnvironmentVariables: invocationEnvironment,
		}
		if _, executionError := launcher.trackerExecutor.ExecuteTracker(executionContext, invocation.Executable, commandDetails); executionError != nil {
			return fmt.Errorf(invocationFailedTemplateConstant, invocation.Executable, executionError)
		}
	}

	launcher.logger.Info(launchCompletedMessageConstant, zap.String(logFieldRepositoryRootConstant, trimmedRoot))
	return nil
}

func (launcher *Launcher) buildChildEnvironment(options Options, repositoryRoot string) (map[string]string, error) {
	childEnvironment := map[string]string{}

	trimmedEnvironmentFile := strings.TrimSpace(options.EnvironmentFilePath)
	if len(trimmedEnvironmentFile) > 0 {
		fileVariables, readError := godotenv.Read(trimmedEnvironmentFile)
		if readError != nil {
			return nil, fmt.Errorf(environmentFileErrorTemplateConstant, trimmedEnvironmentFile, readError)
		}
		for variableName, variableValue := range fileVariables {
			childEnvironment[variableName] = variableValue
		}
	}

	homeValue := strings.TrimSpace(options.HomeOverride)
	if len(homeValue) == 0 {
		homeValue = os.Getenv(homeEnvironmentVariableNameConstant)
	}
	if len(homeValue) > 0 {
		childEnvironment[homeEnvironmentVariableNameConstant] = homeValue
	}

	pathValue := os.Getenv(pathEnvironmentVariableNameConstant)
	trimmedEnvironmentPath := strings.TrimSpace(options.EnvironmentPath)
	if len(trimmedEnvironmentPath) > 0 {
		environmentBinDirectory := filepath.Join(trimmedEnvironmentPath, environmentBinDirectoryNameConstant)
		if len(pathValue) > 0 {
			pathValue = environmentBinDirectory + string(os.PathListSeparator) + pathValue
		} else {
			pathValue = environmentBinDirectory
		}
	}
	if len(pathValue) > 0 {
		childEnvironment[pathEnvironmentVariableNameConstant] = pathValue
	}

	childEnvironment[repoRootEnvironmentVariableNameConstant] = repositoryRoot

	return childEnvironment, nil
}

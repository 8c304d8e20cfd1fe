// Package launch assembles the launch command that activates the tracker
// environment and runs the invocation plan.
package launch

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/avpipeline/tracker/internal/execshell"
	"github.com/avpipeline/tracker/internal/gitrepo"
	launchruntime "github.com/avpipeline/tracker/internal/launch"
)

const (
	commandUseConstant                     = "launch"
	commandShortDescriptionConstant        = "Activate the tracker environment and run the invocation plan"
	commandLongDescriptionConstant         = "launch pins the repository root, prepares the child environment, registers the root as a git trusted path, and executes the configured tracker invocations sequentially."
	repoRootFlagNameConstant               = "repo-root"
	repoRootFlagDescriptionConstant        = "Repository root the invocations run inside"
	planFlagNameConstant                   = "plan"
	planFlagDescriptionConstant            = "Path to a YAML invocation plan overriding the default tracker sequence"
	shellExecutorErrorTemplateConstant     = "unable to construct shell executor: %w"
	repositoryManagerErrorTemplateConstant = "unable to construct repository manager: %w"
	launcherConstructionErrorTemplate      = "unable to construct launcher: %w"
	planLoadErrorTemplateConstant          = "unable to load invocation plan: %w"
	selfExecutableResolveErrorTemplate     = "unable to resolve tracker executable path: %w"
)

// LoggerProvider supplies the logger configured by the root command.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the launch command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        func() CommandConfiguration
	HumanReadableLoggingProvider func() bool
	TrackerExecutor              launchruntime.TrackerExecutor
	TrustedPathRegistrar         launchruntime.TrustedPathRegistrar
	SelfExecutableResolver       func() (string, error)
}

// Build constructs the launch command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().String(repoRootFlagNameConstant, "", repoRootFlagDescriptionConstant)
	command.Flags().String(planFlagNameConstant, "", planFlagDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	commandConfiguration := builder.resolveConfiguration()

	if command.Flags().Changed(repoRootFlagNameConstant) {
		commandConfiguration.RepoRoot, _ = command.Flags().GetString(repoRootFlagNameConstant)
	}
	if command.Flags().Changed(planFlagNameConstant) {
		commandConfiguration.PlanPath, _ = command.Flags().GetString(planFlagNameConstant)
	}
	commandConfiguration = commandConfiguration.Sanitize()

	logger := builder.resolveLogger()

	trackerExecutor, trustedPathRegistrar, collaboratorError := builder.resolveCollaborators(logger, commandConfiguration)
	if collaboratorError != nil {
		return collaboratorError
	}

	launcher, launcherError := launchruntime.NewLauncher(logger, trackerExecutor, trustedPathRegistrar)
	if launcherError != nil {
		return fmt.Errorf(launcherConstructionErrorTemplate, launcherError)
	}

	invocationPlan, planError := builder.resolvePlan(commandConfiguration)
	if planError != nil {
		return planError
	}

	launchOptions := launchruntime.Options{
		RepositoryRoot:      commandConfiguration.RepoRoot,
		EnvironmentName:     commandConfiguration.EnvironmentName,
		EnvironmentPath:     commandConfiguration.EnvironmentPath,
		EnvironmentFilePath: commandConfiguration.EnvironmentFile,
		HomeOverride:        commandConfiguration.HomeOverride,
		RegisterTrustedPath: commandConfiguration.RegisterTrustedPath,
	}

	return launcher.Launch(command.Context(), launchOptions, invocationPlan)
}

func (builder *CommandBuilder) resolveCollaborators(logger *zap.Logger, configuration CommandConfiguration) (launchruntime.TrackerExecutor, launchruntime.TrustedPathRegistrar, error) {
	trackerExecutor := builder.TrackerExecutor
	trustedPathRegistrar := builder.TrustedPathRegistrar

	if trackerExecutor == nil || (trustedPathRegistrar == nil && configuration.RegisterTrustedPath) {
		shellExecutor, executorError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner())
		if executorError != nil {
			return nil, nil, fmt.Errorf(shellExecutorErrorTemplateConstant, executorError)
		}
		if builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider() {
			shellExecutor.SetCommandEventObserver(execshell.NewConsoleCommandEventLogger(logger))
		}

		if trackerExecutor == nil {
			trackerExecutor = shellExecutor
		}
		if trustedPathRegistrar == nil && configuration.RegisterTrustedPath {
			repositoryManager, managerError := gitrepo.NewRepositoryManager(shellExecutor)
			if managerError != nil {
				return nil, nil, fmt.Errorf(repositoryManagerErrorTemplateConstant, managerError)
			}
			trustedPathRegistrar = repositoryManager
		}
	}

	return trackerExecutor, trustedPathRegistrar, nil
}

func (builder *CommandBuilder) resolvePlan(configuration CommandConfiguration) (launchruntime.Plan, error) {
	if len(configuration.PlanPath) > 0 {
		loadedPlan, loadError := launchruntime.LoadPlan(configuration.PlanPath)
		if loadError != nil {
			return launchruntime.Plan{}, fmt.Errorf(planLoadErrorTemplateConstant, loadError)
		}
		return loadedPlan, nil
	}

	resolveSelfExecutable := builder.SelfExecutableResolver
	if resolveSelfExecutable == nil {
		resolveSelfExecutable = os.Executable
	}
	selfExecutablePath, resolveError := resolveSelfExecutable()
	if resolveError != nil {
		return launchruntime.Plan{}, fmt.Errorf(selfExecutableResolveErrorTemplate, resolveError)
	}

	return launchruntime.DefaultPlan(selfExecutablePath), nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	providedLogger := builder.LoggerProvider()
	if providedLogger == nil {
		return zap.NewNop()
	}
	return providedLogger
}

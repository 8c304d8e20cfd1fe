package launch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/avpipeline/tracker/internal/execshell"
)

const (
	testSelfExecutableConstant = "/usr/local/bin/avtracker"
)

type recordingTrackerExecutor struct {
	executedPaths     []string
	executedArguments [][]string
	workingDirs       []string
}

func (executorDouble *recordingTrackerExecutor) ExecuteTracker(executionContext context.Context, executablePath string, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executorDouble.executedPaths = append(executorDouble.executedPaths, executablePath)
	executorDouble.executedArguments = append(executorDouble.executedArguments, details.Arguments)
	executorDouble.workingDirs = append(executorDouble.workingDirs, details.WorkingDirectory)
	return execshell.ExecutionResult{}, nil
}

type recordingTrustedPathRegistrar struct {
	registeredPaths []string
}

func (registrarDouble *recordingTrustedPathRegistrar) EnsureTrustedDirectory(executionContext context.Context, repositoryPath string) (bool, error) {
	registrarDouble.registeredPaths = append(registrarDouble.registeredPaths, repositoryPath)
	return true, nil
}

func TestLaunchCommandRunsDefaultPlan(testInstance *testing.T) {
	repositoryRoot := testInstance.TempDir()
	trackerExecutor := &recordingTrackerExecutor{}
	trustedPathRegistrar := &recordingTrustedPathRegistrar{}

	builder := CommandBuilder{
		LoggerProvider:         func() *zap.Logger { return zap.NewNop() },
		ConfigurationProvider:  func() CommandConfiguration { return CommandConfiguration{RegisterTrustedPath: true} },
		TrackerExecutor:        trackerExecutor,
		TrustedPathRegistrar:   trustedPathRegistrar,
		SelfExecutableResolver: func() (string, error) { return testSelfExecutableConstant, nil },
	}

	launchCommand, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	launchCommand.SetArgs([]string{"--repo-root", repositoryRoot})
	require.NoError(testInstance, launchCommand.Execute())

	require.Equal(testInstance, []string{repositoryRoot}, trustedPathRegistrar.registeredPaths)
	require.Len(testInstance, trackerExecutor.executedPaths, 3)
	require.Equal(testInstance, []string{"track-logs"}, trackerExecutor.executedArguments[0])
	require.Equal(testInstance, []string{"track-lochness", "--network", "Prescient"}, trackerExecutor.executedArguments[1])
	require.Equal(testInstance, []string{"track-lochness", "--network", "ProNET"}, trackerExecutor.executedArguments[2])
	for _, workingDirectory := range trackerExecutor.workingDirs {
		require.Equal(testInstance, repositoryRoot, workingDirectory)
	}
}

func TestLaunchCommandFailsWhenRepositoryRootMissing(testInstance *testing.T) {
	trackerExecutor := &recordingTrackerExecutor{}

	builder := CommandBuilder{
		ConfigurationProvider:  func() CommandConfiguration { return CommandConfiguration{RepoRoot: "/nonexistent/tracker/root"} },
		TrackerExecutor:        trackerExecutor,
		SelfExecutableResolver: func() (string, error) { return testSelfExecutableConstant, nil },
	}

	launchCommand, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	require.Error(testInstance, launchCommand.Execute())
	require.Empty(testInstance, trackerExecutor.executedPaths)
}

func TestDefaultConfigurationValuesEnableTrustedPathRegistration(testInstance *testing.T) {
	defaultValues := DefaultConfigurationValues("launcher")
	require.Equal(testInstance, true, defaultValues["launcher.register_trusted_path"])
}

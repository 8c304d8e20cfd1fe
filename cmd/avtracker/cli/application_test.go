package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avpipeline/tracker/internal/utils"
)

const (
	testConfigurationFileNameConstant = "config.yaml"
	testConfigurationContentConstant  = "common:\n" +
		"  log_level: debug\n" +
		"  log_format: structured\n" +
		"launcher:\n" +
		"  repo_root: /data/av-pipeline-tracker\n" +
		"  register_trusted_path: false\n" +
		"tools:\n" +
		"  track_logs:\n" +
		"    network: ProNET\n" +
		"  lochness:\n" +
		"    email_threshold_hours: 12\n" +
		"statusboard:\n" +
		"  database_path: /var/lib/avtracker/tracker.db\n"
)

func writeConfigurationFile(testInstance *testing.T) string {
	testInstance.Helper()

	configurationPath := filepath.Join(testInstance.TempDir(), testConfigurationFileNameConstant)
	require.NoError(testInstance, os.WriteFile(configurationPath, []byte(testConfigurationContentConstant), 0o644))
	return configurationPath
}

func TestNewApplicationRegistersSubcommands(testInstance *testing.T) {
	application := NewApplication()

	registeredNames := []string{}
	for _, registeredCommand := range application.rootCommand.Commands() {
		registeredNames = append(registeredNames, registeredCommand.Name())
	}

	require.Contains(testInstance, registeredNames, "launch")
	require.Contains(testInstance, registeredNames, "track-logs")
	require.Contains(testInstance, registeredNames, "track-lochness")
}

func TestApplicationLoadsConfigurationFile(testInstance *testing.T) {
	configurationPath := writeConfigurationFile(testInstance)

	application := NewApplication()
	outputBuffer := &bytes.Buffer{}
	application.rootCommand.SetOut(outputBuffer)
	application.rootCommand.SetErr(outputBuffer)
	application.rootCommand.SetArgs([]string{"--config", configurationPath})

	require.NoError(testInstance, application.Execute())

	require.Equal(testInstance, "debug", application.configuration.Common.LogLevel)
	require.Equal(testInstance, "/data/av-pipeline-tracker", application.configuration.Launcher.RepoRoot)
	require.False(testInstance, application.configuration.Launcher.RegisterTrustedPath)
	require.Equal(testInstance, "ProNET", application.configuration.Tools.TrackLogs.Network)
	require.Equal(testInstance, 12, application.configuration.Tools.Lochness.EmailThresholdHours)
	require.Equal(testInstance, "/var/lib/avtracker/tracker.db", application.statusboardDatabasePath())
	require.Equal(testInstance, configurationPath, application.configurationMetadata.ConfigFileUsed)

	contextConfigurationPath, contextPathAvailable := utils.NewCommandContextAccessor().ConfigurationFilePath(application.rootCommand.Context())
	require.True(testInstance, contextPathAvailable)
	require.Equal(testInstance, configurationPath, contextConfigurationPath)
}

func TestApplicationDefaultsWithoutConfigurationFile(testInstance *testing.T) {
	originalWorkingDirectory, workingDirectoryError := os.Getwd()
	require.NoError(testInstance, workingDirectoryError)
	require.NoError(testInstance, os.Chdir(testInstance.TempDir()))
	testInstance.Cleanup(func() { _ = os.Chdir(originalWorkingDirectory) })

	application := NewApplication()
	outputBuffer := &bytes.Buffer{}
	application.rootCommand.SetOut(outputBuffer)
	application.rootCommand.SetErr(outputBuffer)
	application.rootCommand.SetArgs([]string{})

	require.NoError(testInstance, application.Execute())

	require.Equal(testInstance, "info", application.configuration.Common.LogLevel)
	require.Equal(testInstance, "structured", application.configuration.Common.LogFormat)
	require.True(testInstance, application.configuration.Launcher.RegisterTrustedPath)
	require.Equal(testInstance, "Prescient", application.configuration.Tools.TrackLogs.Network)
	require.Equal(testInstance, 24, application.configuration.Tools.Lochness.EmailThresholdHours)
	require.Equal(testInstance, "tracker.db", application.statusboardDatabasePath())
}

package tracklogs

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/avpipeline/tracker/internal/statusboard"
)

const (
	testNetworkNameConstant    = "ProNET"
	testLogSourceKeyConstant   = "pronet_daily_journal_logs"
	testOffsiteSourceKeyConst  = "pronet_offsite_logs"
	testSiteDirectoryConstant  = "SiteCA"
	testLogFileContentConstant = "Current time: 08:00:00\nCurrent time: 08:02:00\n"
)

type recordingResultRecorder struct {
	recordedResults     []statusboard.TaskResult
	recordedCompletions []string
}

func (recorder *recordingResultRecorder) RecordTaskResult(executionContext context.Context, taskResult statusboard.TaskResult) (string, error) {
	recorder.recordedResults = append(recorder.recordedResults, taskResult)
	return fmt.Sprintf("record-%d", len(recorder.recordedResults)), nil
}

func (recorder *recordingResultRecorder) RecordSyncCompletion(executionContext context.Context, network string, completedAt time.Time) error {
	recorder.recordedCompletions = append(recorder.recordedCompletions, network)
	return nil
}

func writeSubtaskLogs(testInstance *testing.T, sourceDirectory string, subtasks []string) {
	testInstance.Helper()

	siteDirectory := filepath.Join(sourceDirectory, testSiteDirectoryConstant)
	require.NoError(testInstance, os.MkdirAll(siteDirectory, 0o755))
	for _, subtask := range subtasks {
		logFileName := fmt.Sprintf("%s_1703230348.txt", subtask)
		require.NoError(testInstance, os.WriteFile(filepath.Join(siteDirectory, logFileName), []byte(testLogFileContentConstant), 0o600))
	}
}

func TestTrackLogsCommandRecordsResults(testInstance *testing.T) {
	dailyJournalDirectory := testInstance.TempDir()
	offsiteDirectory := testInstance.TempDir()
	writeSubtaskLogs(testInstance, dailyJournalDirectory, []string{"audio_process", "transcript_process"})
	writeSubtaskLogs(testInstance, offsiteDirectory, []string{"audio_process", "transcript_process", "video_process"})

	resultRecorder := &recordingResultRecorder{}
	builder := CommandBuilder{
		LoggerProvider:        func() *zap.Logger { return zap.NewNop() },
		ConfigurationProvider: func() CommandConfiguration { return CommandConfiguration{Network: "Prescient"} },
		LogSourcesProvider: func() map[string]string {
			return map[string]string{
				testLogSourceKeyConstant:  dailyJournalDirectory,
				testOffsiteSourceKeyConst: offsiteDirectory,
			}
		},
		ResultRecorder: resultRecorder,
	}

	trackLogsCommand, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	outputBuffer := &bytes.Buffer{}
	trackLogsCommand.SetOut(outputBuffer)
	trackLogsCommand.SetArgs([]string{"--network", testNetworkNameConstant})
	require.NoError(testInstance, trackLogsCommand.Execute())

	require.Contains(testInstance, outputBuffer.String(), "tracked ProNET: 2 sites, 5 results recorded")
	require.Len(testInstance, resultRecorder.recordedResults, 5)
	require.Equal(testInstance, []string{testNetworkNameConstant}, recorderNetworks(resultRecorder))
	require.Equal(testInstance, []string{testNetworkNameConstant}, resultRecorder.recordedCompletions)
}

func recorderNetworks(recorder *recordingResultRecorder) []string {
	uniqueNetworks := []string{}
	seenNetworks := map[string]bool{}
	for _, recordedResult := range recorder.recordedResults {
		if !seenNetworks[recordedResult.Network] {
			seenNetworks[recordedResult.Network] = true
			uniqueNetworks = append(uniqueNetworks, recordedResult.Network)
		}
	}
	return uniqueNetworks
}

func TestTrackLogsCommandFailsWithoutLogSources(testInstance *testing.T) {
	resultRecorder := &recordingResultRecorder{}
	builder := CommandBuilder{
		ConfigurationProvider: func() CommandConfiguration { return DefaultCommandConfiguration() },
		ResultRecorder:        resultRecorder,
	}

	trackLogsCommand, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	require.Error(testInstance, trackLogsCommand.Execute())
	require.Empty(testInstance, resultRecorder.recordedCompletions)
}

func TestDefaultCommandConfigurationListsTrackingTasks(testInstance *testing.T) {
	defaultConfiguration := DefaultCommandConfiguration()
	require.Equal(testInstance, "Prescient", defaultConfiguration.Network)
	require.Equal(testInstance, []string{"daily_journal", "offsite"}, defaultConfiguration.Tasks)
}

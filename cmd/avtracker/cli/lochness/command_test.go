package lochness

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/avpipeline/tracker/internal/notify"
)

const (
	testNetworkNameConstant = "Prescient"
)

type scriptedCompletionReader struct {
	lastSeen          time.Time
	completionPresent bool
}

func (reader *scriptedCompletionReader) LastSyncCompletion(executionContext context.Context, network string) (time.Time, bool, error) {
	return reader.lastSeen, reader.completionPresent, nil
}

type recordingAlertDispatcher struct {
	dispatchedAlerts []notify.Alert
}

func (dispatcher *recordingAlertDispatcher) Dispatch(executionContext context.Context, alert notify.Alert) error {
	dispatcher.dispatchedAlerts = append(dispatcher.dispatchedAlerts, alert)
	return nil
}

func TestTrackLochnessCommandRequiresNetworkFlag(testInstance *testing.T) {
	builder := CommandBuilder{
		CompletionReader: &scriptedCompletionReader{completionPresent: true, lastSeen: time.Now()},
		AlertDispatcher:  &recordingAlertDispatcher{},
	}

	lochnessCommand, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	lochnessCommand.SetArgs([]string{})
	require.Error(testInstance, lochnessCommand.Execute())
}

func TestTrackLochnessCommandDispatchesOverdueAlert(testInstance *testing.T) {
	alertDispatcher := &recordingAlertDispatcher{}
	builder := CommandBuilder{
		LoggerProvider:        func() *zap.Logger { return zap.NewNop() },
		ConfigurationProvider: func() CommandConfiguration { return CommandConfiguration{EmailThresholdHours: 1} },
		CompletionReader:      &scriptedCompletionReader{completionPresent: true, lastSeen: time.Now().Add(-2 * time.Hour)},
		AlertDispatcher:       alertDispatcher,
	}

	lochnessCommand, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	lochnessCommand.SetArgs([]string{"--network", testNetworkNameConstant})
	require.NoError(testInstance, lochnessCommand.Execute())

	require.Len(testInstance, alertDispatcher.dispatchedAlerts, 1)
	require.Contains(testInstance, alertDispatcher.dispatchedAlerts[0].Subject, testNetworkNameConstant)
}

func TestTrackLochnessCommandSucceedsWithinThreshold(testInstance *testing.T) {
	alertDispatcher := &recordingAlertDispatcher{}
	builder := CommandBuilder{
		ConfigurationProvider: func() CommandConfiguration { return DefaultCommandConfiguration() },
		CompletionReader:      &scriptedCompletionReader{completionPresent: true, lastSeen: time.Now()},
		AlertDispatcher:       alertDispatcher,
	}

	lochnessCommand, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	lochnessCommand.SetArgs([]string{"--network", testNetworkNameConstant})
	require.NoError(testInstance, lochnessCommand.Execute())
	require.Empty(testInstance, alertDispatcher.dispatchedAlerts)
}

func TestDefaultCommandConfigurationThreshold(testInstance *testing.T) {
	require.Equal(testInstance, 24, DefaultCommandConfiguration().EmailThresholdHours)
}

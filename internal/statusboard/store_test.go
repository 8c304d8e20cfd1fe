package statusboard_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/avpipeline/tracker/internal/statusboard"
)

const (
	testDatabaseFileNameConstant = "tracker.db"
	testNetworkNameConstant      = "Prescient"
	testOtherNetworkNameConstant = "ProNET"
	testTaskNameConstant         = "offsite"
	testSubtaskNameConstant      = "audio_process"
	testSiteIdentifierConstant   = "LA"
	testStatusConstant           = "No errors"
)

func openTestStore(testInstance *testing.T) *statusboard.Store {
	testInstance.Helper()

	databasePath := filepath.Join(testInstance.TempDir(), testDatabaseFileNameConstant)
	store, openError := statusboard.OpenStore(databasePath)
	require.NoError(testInstance, openError)
	testInstance.Cleanup(func() {
		require.NoError(testInstance, store.Close())
	})

	return store
}

func TestOpenStoreRequiresDatabasePath(testInstance *testing.T) {
	store, openError := statusboard.OpenStore("  ")
	require.Error(testInstance, openError)
	require.Nil(testInstance, store)
}

func TestRecordTaskResultGeneratesIdentifiers(testInstance *testing.T) {
	store := openTestStore(testInstance)

	taskResult := statusboard.TaskResult{
		Network:        testNetworkNameConstant,
		Task:           testTaskNameConstant,
		Subtask:        testSubtaskNameConstant,
		SiteIdentifier: testSiteIdentifierConstant,
		Status:         testStatusConstant,
		LastRun:        time.Unix(1703230348, 0),
		Runtime:        3 * time.Minute,
	}

	firstIdentifier, firstInsertError := store.RecordTaskResult(context.Background(), taskResult)
	require.NoError(testInstance, firstInsertError)
	require.NotEmpty(testInstance, firstIdentifier)

	secondIdentifier, secondInsertError := store.RecordTaskResult(context.Background(), taskResult)
	require.NoError(testInstance, secondInsertError)
	require.NotEqual(testInstance, firstIdentifier, secondIdentifier)
}

func TestSyncCompletionRoundTrip(testInstance *testing.T) {
	store := openTestStore(testInstance)

	_, completionRecorded, missingQueryError := store.LastSyncCompletion(context.Background(), testNetworkNameConstant)
	require.NoError(testInstance, missingQueryError)
	require.False(testInstance, completionRecorded)

	earlierCompletion := time.Unix(1703230348, 0)
	laterCompletion := time.Unix(1703270000, 0)
	require.NoError(testInstance, store.RecordSyncCompletion(context.Background(), testNetworkNameConstant, earlierCompletion))
	require.NoError(testInstance, store.RecordSyncCompletion(context.Background(), testNetworkNameConstant, laterCompletion))
	require.NoError(testInstance, store.RecordSyncCompletion(context.Background(), testOtherNetworkNameConstant, earlierCompletion))

	lastCompletion, completionRecorded, queryError := store.LastSyncCompletion(context.Background(), testNetworkNameConstant)
	require.NoError(testInstance, queryError)
	require.True(testInstance, completionRecorded)
	require.True(testInstance, lastCompletion.Equal(laterCompletion))

	otherCompletion, otherRecorded, otherQueryError := store.LastSyncCompletion(context.Background(), testOtherNetworkNameConstant)
	require.NoError(testInstance, otherQueryError)
	require.True(testInstance, otherRecorded)
	require.True(testInstance, otherCompletion.Equal(earlierCompletion))
}

func TestSyncCompletionRequiresNetwork(testInstance *testing.T) {
	store := openTestStore(testInstance)

	require.Error(testInstance, store.RecordSyncCompletion(context.Background(), " ", time.Now()))

	_, _, queryError := store.LastSyncCompletion(context.Background(), " ")
	require.Error(testInstance, queryError)
}

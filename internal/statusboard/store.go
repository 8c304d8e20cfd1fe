package statusboard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const (
	sqliteDriverNameConstant              = "sqlite"
	databasePathRequiredMessageConstant   = "status board database path must be provided"
	networkRequiredMessageConstant        = "network name must be provided"
	databaseOpenErrorTemplateConstant     = "failed to open status board database: %w"
	schemaCreationErrorTemplateConstant   = "failed to create status board schema: %w"
	resultInsertErrorTemplateConstant     = "failed to record task result: %w"
	completionInsertErrorTemplateConstant = "failed to record sync completion: %w"
	completionQueryErrorTemplateConstant  = "failed to read sync completion: %w"

	taskResultsSchemaStatementConstant = `CREATE TABLE IF NOT EXISTS task_results (
	record_id       TEXT PRIMARY KEY,
	network         TEXT NOT NULL,
	task            TEXT NOT NULL,
	subtask         TEXT NOT NULL,
	site_id         TEXT NOT NULL,
	status          TEXT NOT NULL,
	last_run        INTEGER NOT NULL,
	runtime_seconds INTEGER NOT NULL,
	log_excerpt     TEXT NOT NULL,
	recorded_at     INTEGER NOT NULL
)`
	syncCompletionsSchemaStatementConstant = `CREATE TABLE IF NOT EXISTS sync_completions (
	network      TEXT NOT NULL,
	completed_at INTEGER NOT NULL
)`
	taskResultInsertStatementConstant = `INSERT INTO task_results
	(record_id, network, task, subtask, site_id, status, last_run, runtime_seconds, log_excerpt, recorded_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	syncCompletionInsertStatementConstant = `INSERT INTO sync_completions (network, completed_at) VALUES (?, ?)`
	syncCompletionQueryStatementConstant  = `SELECT completed_at FROM sync_completions WHERE network = ? ORDER BY completed_at DESC LIMIT 1`
)

// TaskResult captures the tracked outcome of a single subtask run for a site.
type TaskResult struct {
	Network        string
	Task           string
	Subtask        string
	SiteIdentifier string
	Status         string
	LastRun        time.Time
	Runtime        time.Duration
	LogExcerpt     string
}

// Store provides durable persistence for tracker outcomes.
type Store struct {
	database *sql.DB
}

// OpenStore opens (creating when necessary) the status board database at the provided path.
func OpenStore(databasePath string) (*Store, error) {
	trimmedDatabasePath := strings.TrimSpace(databasePath)
	if len(trimmedDatabasePath) == 0 {
		return nil, errors.New(databasePathRequiredMessageConstant)
	}

	database, openError := sql.Open(sqliteDriverNameConstant, trimmedDatabasePath)
	if openError != nil {
		return nil, fmt.Errorf(databaseOpenErrorTemplateConstant, openError)
	}

	for _, schemaStatement := range []string{taskResultsSchemaStatementConstant, syncCompletionsSchemaStatementConstant} {
		if _, schemaError := database.Exec(schemaStatement); schemaError != nil {
			_ = database.Close()
			return nil, fmt.Errorf(schemaCreationErrorTemplateConstant, schemaError)
		}
	}

	return &Store{database: database}, nil
}

// Close releases the underlying database handle.
func (store *Store) Close() error {
	return store.database.Close()
}

// RecordTaskResult persists a task result and returns its generated record identifier.
func (store *Store) RecordTaskResult(executionContext context.Context, taskResult TaskResult) (string, error) {
	recordIdentifier := uuid.NewString()

	_, insertError := store.database.ExecContext(
		executionContext,
		taskResultInsertStatementConstant,
		recordIdentifier,
		taskResult.Network,
		taskResult.Task,
		taskResult.Subtask,
		taskResult.SiteIdentifier,
		taskResult.Status,
		taskResult.LastRun.Unix(),
		int64(taskResult.Runtime.Seconds()),
		taskResult.LogExcerpt,
		time.Now().Unix(),
	)
	if insertError != nil {
		return "", fmt.Errorf(resultInsertErrorTemplateConstant, insertError)
	}

	return recordIdentifier, nil
}

// RecordSyncCompletion stores a completion timestamp for the provided network.
func (store *Store) RecordSyncCompletion(executionContext context.Context, network string, completedAt time.Time) error {
	trimmedNetwork := strings.TrimSpace(network)
	if len(trimmedNetwork) == 0 {
		return errors.New(networkRequiredMessageConstant)
	}

	_, insertError := store.database.ExecContext(executionContext, syncCompletionInsertStatementConstant, trimmedNetwork, completedAt.Unix())
	if insertError != nil {
		return fmt.Errorf(completionInsertErrorTemplateConstant, insertError)
	}

	return nil
}

// LastSyncCompletion reads the most recent completion timestamp for the provided network.
//
// The boolean reports whether any completion has been recorded.
func (store *Store) LastSyncCompletion(executionContext context.Context, network string) (time.Time, bool, error) {
	trimmedNetwork := strings.TrimSpace(network)
	if len(trimmedNetwork) == 0 {
		return time.Time{}, false, errors.New(networkRequiredMessageConstant)
	}

	var completedAtSeconds int64
	queryError := store.database.QueryRowContext(executionContext, syncCompletionQueryStatementConstant, trimmedNetwork).Scan(&completedAtSeconds)
	if queryError != nil {
		if errors.Is(queryError, sql.ErrNoRows) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf(completionQueryErrorTemplateConstant, queryError)
	}

	return time.Unix(completedAtSeconds, 0), true, nil
}

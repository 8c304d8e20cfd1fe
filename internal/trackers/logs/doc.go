// Package logs tracks pipeline log directories for a network, recording
// per-site subtask outcomes and a sync completion timestamp on the status
// board.
package logs

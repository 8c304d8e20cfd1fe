// Package gitrepo contains helpers for registering tracker directories with Git.
//
// It exposes RepositoryManager, which performs the idempotent safe.directory
// registration required before invoked tracker targets run version-control
// operations inside the repository root.
package gitrepo

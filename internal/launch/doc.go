// Package launch activates the tracker runtime environment and executes an
// ordered plan of tracker invocations inside the repository root.
package launch

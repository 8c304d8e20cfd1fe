// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec with lifecycle logging via ShellExecutor, exposes
// OSCommandRunner for default process execution, and defines abstractions used
// throughout the tracker to run git, mail, and tracker executables in a
// testable manner.
package execshell

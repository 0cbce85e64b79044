// Package watcher notifies about configuration file changes on disk. The
// resolved snapshot is immutable for the process lifetime, so a change only
// produces a notice that a restart is required.
package watcher

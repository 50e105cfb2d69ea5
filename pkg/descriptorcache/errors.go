package descriptorcache

import "fmt"

// UnresolvedDependencyError reports that a file descriptor proto names
// a dependency (an import path) not already present in the cache.
// Dependencies must be inserted before any file that imports them.
type UnresolvedDependencyError struct {
	File       string
	Dependency string
}

func (e *UnresolvedDependencyError) Error() string {
	return fmt.Sprintf("descriptorcache: file %q depends on %q, which is not in the cache", e.File, e.Dependency)
}

// MessageNotFoundError reports that a fully-qualified message name was
// not found among the messages declared by any cached file.
type MessageNotFoundError struct {
	FullName string
}

func (e *MessageNotFoundError) Error() string {
	return fmt.Sprintf("descriptorcache: message %q not found", e.FullName)
}

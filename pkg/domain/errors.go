package domain

import "errors"

// ErrUnknownState is returned when an operation names a state type that was
// never registered.
var ErrUnknownState = errors.New("state type not registered")

// ErrNoGlobalContext is returned by queries and update requests issued before
// any global state was initialized.
var ErrNoGlobalContext = errors.New("no global context exists")

// ErrNoSuchContext is returned when a local context handle is unknown.
var ErrNoSuchContext = errors.New("context not found")

// ErrStateNotInitialized is returned when a context has no record for the
// requested state type.
var ErrStateNotInitialized = errors.New("state not initialized on context")

// ErrSnapshotNotFound is returned by snapshot stores when the key is absent.
var ErrSnapshotNotFound = errors.New("snapshot not found")

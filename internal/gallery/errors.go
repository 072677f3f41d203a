package gallery

import "errors"

var (
	// ErrCaptureAborted is returned when the camera failed or the user cancelled
	ErrCaptureAborted = errors.New("capture aborted")
	// ErrEncodingUnavailable marks a photo whose bytes could not be loaded or encoded
	ErrEncodingUnavailable = errors.New("encoding unavailable")
	// ErrStorageWriteFailed is returned when the photo could not be written to storage
	ErrStorageWriteFailed = errors.New("storage write failed")
	// ErrPersistFailed is returned when the gallery metadata could not be saved
	ErrPersistFailed = errors.New("persisting gallery failed")
	// ErrPersistedStateCorrupt marks a stored gallery value that cannot be parsed
	ErrPersistedStateCorrupt = errors.New("persisted gallery is corrupt")
	// ErrPersistedStateUnavailable is returned when the stored gallery could not be read
	ErrPersistedStateUnavailable = errors.New("persisted gallery unavailable")
	// ErrPerEntryReadFailed is returned when a restored entry could not be read back
	ErrPerEntryReadFailed = errors.New("reading gallery entry failed")
)

package submission

import (
	"errors"
	"fmt"
)

// Stage names the pipeline step that failed.
type Stage string

const (
	StageDecode   Stage = "decode"
	StageUpload   Stage = "upload"
	StageValidate Stage = "validate"
	StageInsert   Stage = "insert"
)

// ErrEmptySignature is wrapped when the signature answer is missing or blank.
var ErrEmptySignature = errors.New("submission: signature is empty")

// UploadError reports that the signature could not be decoded or stored.
type UploadError struct {
	Stage Stage
	Key   string
	Err   error
}

func (e *UploadError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("submission: %s %s: %v", e.Stage, e.Key, e.Err)
	}
	return fmt.Sprintf("submission: %s: %v", e.Stage, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// PersistError reports that the record was rejected before or during insert.
type PersistError struct {
	Stage Stage
	Table string
	Err   error
}

func (e *PersistError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("submission: %s %s: %v", e.Stage, e.Table, e.Err)
	}
	return fmt.Sprintf("submission: %s: %v", e.Stage, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// IsUploadError reports whether err carries an UploadError.
func IsUploadError(err error) bool {
	var target *UploadError
	return errors.As(err, &target)
}

// IsPersistError reports whether err carries a PersistError.
func IsPersistError(err error) bool {
	var target *PersistError
	return errors.As(err, &target)
}

// StageOf extracts the failing stage from a pipeline error.
func StageOf(err error) Stage {
	var upload *UploadError
	if errors.As(err, &upload) {
		return upload.Stage
	}
	var persist *PersistError
	if errors.As(err, &persist) {
		return persist.Stage
	}
	return ""
}

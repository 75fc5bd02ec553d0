// Package storage groups the backends the submission pipeline writes to.
// Each sub-package implements submission.ObjectStore, submission.RecordStore
// or both.
package storage

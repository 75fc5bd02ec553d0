// Package submission turns a completed answer store into a durable intake
// record: the signature is uploaded to object storage, the answers are
// flattened into the backend's column layout, validated against the
// IntakeRecord schema and inserted as one row. The pipeline fails fast on the
// first error and never retries on its own.
package submission

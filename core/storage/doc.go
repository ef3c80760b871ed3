// Package storage provides the object storage client used as a bundle source.
//
// Curriculum bundles may live in an S3-compatible bucket (MinIO) instead of
// the local filesystem; the ingest step lists and fetches bundle documents
// through the Client interface defined here.
//
// The mocks subpackage contains a testify mock of Client for unit tests.
package storage

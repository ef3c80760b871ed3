// Package curriculum implements the curriculum content loading feature.
//
// A bundle — one topic's worth of lessons, code examples, and quiz
// questions, addressed by slug-based natural keys — is reconciled into the
// relational store in a single transaction. Loads are idempotent and safe to
// retry: reloading the same bundle updates rows in place and replaces lesson
// children, and a failed load leaves the store untouched.
//
// # Components
//
//   - models: bundle input types and table row models.
//   - validate: structural validation with collected, path-addressed errors.
//   - schema: the declarative table descriptors and bootstrap migrations.
//   - reconcile: resolver, reconciler, transaction boundary, error taxonomy.
//   - ingest: bundle decoding from files or object storage.
//   - Loader (this package): orchestration, logging, retries, seeding.
package curriculum

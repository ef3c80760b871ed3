// Package reconcile is the heart of the loader: it brings the store's state
// for one bundle into agreement with the bundle's contents.
//
// # Components
//
//   - Resolver: translates slug-based natural keys into surrogate IDs inside
//     the transaction, caching lookups for the transaction's lifetime only.
//   - Reconciler: upserts the topic and lessons by natural key and fully
//     replaces each lesson's code examples and quiz questions.
//   - RunInTransaction: the atomic unit of work with configurable isolation
//     and a transaction-wide timeout.
//   - Classify / Error: the error taxonomy (validation, missing_parent,
//     constraint_conflict, transient, fatal) callers use to decide retries.
//   - BuildPlan: a read-only preview of the mutations a load would perform.
//
// # Guarantees
//
// Loads are idempotent: reloading the same bundle leaves the store unchanged
// apart from reassigned child surrogate IDs. A load either commits whole or
// leaves the store exactly as it was. Within a load, parents are written
// before children and children are inserted in ascending order_index.
package reconcile

// Package index provides the deterministic entity-relationship index over
// imaging nodes and technologies.
//
// A build runs one sequential pass:
//
//	dataset -> Record Store -> Resolver -> Bidirectional Index -> Name Index
//
// and produces an immutable Snapshot. Index publishes snapshots with a
// single atomic pointer swap, so any number of readers query without locks
// and never observe a partial build.
//
// # Resolution
//
// A node's technology reference is, in order: a formal technology ID, the
// exact (case-sensitive) display name of a formal technology, or a free-form
// name. Free-form names get a synthetic technology whose ID is a
// domain-separated SHA-256 of the normalized name (see
// catalog.SyntheticID), so equivalent names from different nodes share one
// record.
//
// # Invariants
//
//   - Symmetry: T is in TechnologiesOf(N) iff N is in NodesOf(T)
//   - Name totality: every record is found by LookupNode/LookupTechnology
//     under its own name (last-write-wins among duplicates)
//   - Determinism: identical datasets produce identical answers; results
//     follow Record Store insertion order
//
// # Errors
//
//   - ErrNotFound: unknown ID or name
//   - ErrNotInitialized: query before the first successful build
//   - *IntegrityError: build aborted, previous snapshot kept
//   - Invalid records are skipped, logged, and listed in Snapshot.Report
package index

// Package store keeps an imported bioindex dataset in SQLite.
//
// The store is a cache of the raw dataset, not of the index: SaveDataset
// writes records exactly as they were loaded (raw technology references
// included) and LoadDataset returns them in the same order, so building an
// index from the store gives the same snapshot as building it from the
// source files.
//
// # Ordering
//
// Every read uses ORDER BY seq ASC, id COLLATE BINARY ASC. seq is the
// record's position in the imported sequence.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON
package store

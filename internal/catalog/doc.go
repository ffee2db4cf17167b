// Package catalog provides the record types shared by every bioindex layer.
//
// This package contains type definitions and the pure functions that
// derive identity from them. The loader, store, index and CLI packages all
// import catalog; catalog imports nothing internal.
//
// Key constraints:
//   - Formal records come from a dataset; synthetic technologies are created
//     only by the index resolver and carry the "synthetic-" ID prefix
//   - Names are compared after NormalizeName (NFC, trimmed, whitespace
//     collapsed, Unicode case folded)
//   - All JSON tags use snake_case
package catalog

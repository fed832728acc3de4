// Package tabular defines the shared language of the TabForge system.
//
// This package contains:
//   - The cell value variant (Value) and its coercion rules
//   - The canonical in-memory representations (Table, Workbook)
//   - The error taxonomy shared by codecs, pipelines, and transports
//
// The Golden Rule: pkg/tabular imports ONLY the stdlib.
// All other packages depend on tabular, not the reverse.
package tabular

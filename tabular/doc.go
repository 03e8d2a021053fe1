// Package tabular extracts values from the whitespace-aligned tables that
// CLI tools such as `ollama list` print.
//
// ParseNames returns the first column of every data row. ParseTable splits
// rows into named cells using the header's column offsets, which keeps
// cells that contain single spaces ("4.7 GB", "2 weeks ago") intact.
// ParseTableWithHeader additionally requires the header to start with a
// known prefix, as ParseNames does.
//
// Both functions are pure and safe for concurrent use.
package tabular

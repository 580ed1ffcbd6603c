// Package mdclip saves the main content of a web page as a portable
// Markdown document with a deterministic, filesystem-safe file name.
//
// This package contains domain types, interfaces, and the pure parts of the
// pipeline (metadata resolution, markdown header assembly, file naming).
// Implementations live in subdirectories named after their primary
// dependency (e.g., goquery/, readability/, htmltomarkdown/).
package mdclip

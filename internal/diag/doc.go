// Package diag collects user-facing problems found while reading dust sources.
//
// Phases never print. They hand Diagnostic values to a Reporter; the driver
// decides where they end up (a Bag, a dedup filter, the disk cache) and
// diagfmt renders them.
//
// Codes are grouped by phase:
//
//	1xxx  LEX  lexer
//	2xxx  SYN  parser
//	3xxx  IO   file system and cache
//
// Contract violations (cross-file span union, foreign handles) are panics in
// package source and never become diagnostics.
package diag

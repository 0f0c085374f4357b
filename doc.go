// Package flog provides a synchronous, leveled logger that appends human-readable
// records to a single file and rotates it by size.
//
// Features:
//   - Eight syslog severities with a mutable threshold
//   - Fixed text layout: "[2024-07-26 9:05:01.000123] [info] message"
//   - Ordered key-value context rendered as an indented block
//   - Size-triggered rotation to numbered archives (app.log.1, app.log.2, ...)
//   - No-clobber archival: an existing archive is never overwritten
//   - Open-write-close per record, no background goroutines
//   - Write path failures are reported to an error sink and never returned
//
// Lixen Wraith, 2024
package flog

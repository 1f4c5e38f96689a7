// Package cmd implements the command-line interface for the plist tooling.
//
// The package is organized into several subpackages:
//
//   - merge: Merges sorted TSV runs (oldest first) into a partitioned sorted index
//     and reports the result, optional lookups and metrics
//   - bench: Performance tests for appends, lookups, updates and range scans
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// Every flag can also be set through the environment with the PLIST_ prefix
// (e.g. PLIST_PARTITION_SIZE=1024) or in a .env file.
//
// See plist -help for a list of all commands.
package cmd

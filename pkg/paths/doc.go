// Package paths provides centralized path handling for shipway.
// It derives the full on-disk deployment layout from the merged
// configuration. Resolution is a pure function of its inputs: no
// filesystem access, no environment reads.
package paths

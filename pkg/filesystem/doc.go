// Package filesystem provides implementations of the types.FS interface.
//
// Two implementations are available:
//   - NewOS returns a filesystem backed by the real OS, used in production.
//   - NewAferoFS wraps an afero filesystem, used in tests with MemMapFs.
package filesystem

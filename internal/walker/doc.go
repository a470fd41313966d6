// Package walker lazily enumerates files under a directory tree whose path
// ends with a literal suffix.
//
// Walk returns a single-pass iterator: the caller's loop body runs before the
// next directory entry is examined, so conversions can begin while the scan
// is still in progress. Traversal is depth-first and sibling order follows
// the directory listing, not the lexical order of names.
package walker

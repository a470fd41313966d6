// Package convert turns one discovered media file into an MP4 by running an
// external transcoder.
//
// Job derivation is purely textual: the first occurrence of the source suffix
// in the file name becomes "mp4", and the result lands either beside the
// source or in a caller-supplied output directory. Converter checks that the
// source is still a regular file, runs the transcoder with empty stdin and
// captured output, and reports the outcome, exit status, and wall-clock time.
// Transcoder failures are reported, never returned as errors, so a batch
// always moves on to the next file.
package convert

// Package preflight provides readiness checks for the filesystem paths and
// external programs a conversion run depends on.
//
// The root command calls RunAll after validating its inputs and logs each
// failed check as a warning before converting; problems such as a missing
// transcoder then surface as failed jobs. "mp4convert check" renders the same
// results as status lines and exits non-zero when one fails.
package preflight

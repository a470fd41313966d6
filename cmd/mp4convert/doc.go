// Package main hosts the mp4convert CLI entrypoint and command graph.
//
// The root command validates a search request, takes the run lock, and hands
// the request to the batch driver. Subcommands report dependency status, show
// the job history, and scaffold configuration.
package main

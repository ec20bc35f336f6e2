// Command notes manages the note collection from a terminal.
//
// It reads the same configuration as the HTTP server (STORAGE_BACKEND,
// DB_PATH, REDIS_URL, ... from the environment or .env), so both front ends
// can share one collection. Do not point both at one sqlite file while the
// server is running: each process keeps its own in-memory copy.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(openConfiguredEngine).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

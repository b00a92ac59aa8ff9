// Command assistants drives the threads, messages and runs endpoints from the
// command line. Every command prints the JSON object returned by the API.
//
// Configuration is resolved in this order, later sources winning: embedded
// defaults, --config file, environment (OPENAI_API_KEY, OPENAI_BASE_URL,
// OPENAI_ORG_ID, optionally from a .env file), --base-url.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(&app{}).Execute(); err != nil {
		os.Exit(1)
	}
}

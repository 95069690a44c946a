// Command codesight is the CLI entry point: index, search, ask, and status
// over a local hybrid search index.
package main

import "github.com/codesight/codesight/internal/cli"

func main() {
	cli.Execute()
}

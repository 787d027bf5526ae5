// # cmd/mjson5fmt/main.go
package main

import (
	"os"

	"mjson5/internal/ui/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}

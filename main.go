// ./main.go
package main

import (
	"github.com/xkilldash9x/mergegate/cmd"
)

// main is the entry point for the mergegate CLI.
func main() {
	// Execute the root command defined in the cmd package. It owns
	// command-line parsing, configuration loading and the exit status.
	cmd.Execute()
}

// Command goshell is an interactive POSIX-subset command-line shell.
package main

import "github.com/naveen-go/goshell/internal/cli"

func main() {
	cli.Execute()
}

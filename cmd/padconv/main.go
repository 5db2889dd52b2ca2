// Command padconv converts the Inspire hand URDF to USD and writes the
// matching contact-sensor configuration.
package main

import (
	"os"

	"github.com/roach88/padconv/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}

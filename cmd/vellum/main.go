// Command vellum persists, inspects, and upgrades versioned diagram files.
package main

import "github.com/inkforge/vellum/internal/cli"

func main() {
	cli.Execute()
}

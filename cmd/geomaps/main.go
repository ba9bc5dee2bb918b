// geomaps is a command-line client for location lookups: geocode, reverse,
// autocomplete, route, and matrix.
package main

var version = "dev"

func main() {
	Execute(version)
}

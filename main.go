package main

import "github.com/rubiojr/facet/cmd"

var version = "v0.3.0"

func main() {
	cmd.Execute(version)
}

package main

import "github.com/gridmesh-network/gridmesh/internal/cli"

// version is set at build time via -ldflags "-X main.version=...".
var version = "0.1.0-dev"

func main() {
	cli.Execute(version)
}

package main

import "github.com/debemdeboas/folio/internal/cli"

func main() {
	cli.Execute()
}

package main

import "github.com/mcoot/ofelia/internal/cli"

func main() {
	cli.Execute()
}

package main

import "github.com/Simplici0/cabinet-cpq/internal/cli"

func main() {
	cli.Execute()
}

package main

import "github.com/mhartmann/auswaerts/internal/cli"

func main() {
	cli.Execute()
}

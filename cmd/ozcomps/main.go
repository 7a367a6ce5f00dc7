package main

import "github.com/competitionkit/ozcomps/internal/cli"

func main() {
	cli.Execute()
}

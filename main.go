package main

import "github.com/agentic-research/tsorg/cmd"

func main() {
	cmd.Execute()
}

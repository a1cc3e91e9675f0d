package main

import "github.com/tuannm99/novanode/internal/cli"

func main() {
	cli.Execute()
}

package main

import "github.com/hasec/netwatch/internal/cli"

func main() {
	cli.Execute()
}

package main

import "github.com/forPelevin/cinedex/internal/cli"

func main() {
	cli.Main()
}

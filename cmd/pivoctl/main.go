package main

import "github.com/thepivo/pivoadmin/internal/cli"

func main() {
	cli.Execute()
}

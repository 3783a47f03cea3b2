package main

import "github.com/dcsl-project/debrief/internal/cli"

func main() {
	cli.Execute()
}

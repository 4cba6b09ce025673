package main

import (
	"os"

	"github.com/bcomnes/bump/cmd"
)

func main() {
	os.Exit(cmd.Execute(Version))
}

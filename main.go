package main

import (
	"os"

	"github.com/lqd-lang/liquid/cmd"
)

func main() {
	os.Exit(cmd.Main())
}

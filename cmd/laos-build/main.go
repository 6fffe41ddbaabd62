package main

import (
	"os"

	"github.com/gil0mendes/LAOS/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}

package main

import (
	"os"

	"github.com/verdant-labs/sprout/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}

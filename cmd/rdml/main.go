package main

import (
	"os"

	"github.com/open-cli-collective/rdml-cli/internal/cmd/root"
)

func main() {
	os.Exit(root.Execute())
}

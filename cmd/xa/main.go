package main

import (
	"os"

	"github.com/xa-lang/xa/cmd/xa/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}

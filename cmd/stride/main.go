package main

import (
	"github.com/strideio/stridefile/cmd/stride/cmd"
)

func main() {
	cmd.Execute()
}

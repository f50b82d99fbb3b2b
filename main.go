package main

import (
	"os"

	"github.com/juliankahlert/the-almanac-of-codecraft/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

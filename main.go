package main

import (
	"os"

	"github.com/halia-ca/sassy/cmd/sassy"
)

func main() {
	if err := sassy.Execute(); err != nil {
		os.Exit(1)
	}
}

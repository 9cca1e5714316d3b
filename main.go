package main

import (
	"fmt"
	"os"

	"github.com/udevgo/udevgo/cmd/udevctl"
)

func main() {
	if err := udevctl.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

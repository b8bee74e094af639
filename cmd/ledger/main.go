package main

import (
	"fmt"
	"os"

	"github.com/JoeShih716/go-lock-ledger/internal/app/core/adapter/in/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

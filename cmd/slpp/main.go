package main

import (
	"fmt"
	"os"

	"github.com/secondlife/sl-vscode-plugin-sub001/internal/cmd/root"
)

func main() {
	cmd := root.NewCmdRoot()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

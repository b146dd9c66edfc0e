package main

import (
	"context"
	"fmt"
	"os"

	"course-authoring/internal/cli"
)

func main() {
	root := cli.NewRootCommand(cli.DefaultAppFactory)

	if err := root.Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(root.ExitCode(err))
	}
}

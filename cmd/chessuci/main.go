// Command chessuci is the UCI front end for the corechess engine.
package main

import (
	"flag"
	"fmt"
	"os"

	chesscore "github.com/corechess/engine"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML options file")
	flag.Parse()

	opts := chesscore.Options{}
	if *configPath != "" {
		loaded, err := chesscore.LoadOptions(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "chessuci: %v\n", err)
			os.Exit(1)
		}
		opts = loaded
	}

	engine, err := chesscore.NewEngine(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chessuci: %v\n", err)
		os.Exit(1)
	}

	New(engine).Run(os.Stdin)
}

// nbtdump decodes a binary save file (gzip-wrapped or raw) and prints its
// JSON rendering. Long values are printed as decimal strings.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/St4ndd/NodeStack/internal/logging"
	"github.com/St4ndd/NodeStack/internal/nbt"
	"github.com/St4ndd/NodeStack/internal/savefile"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "nbtdump: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()
	logging.ConfigureRuntime("nbtdump")

	if flag.NArg() != 1 {
		return fmt.Errorf("usage: nbtdump <file>")
	}
	root, err := savefile.Load(flag.Arg(0))
	if err != nil {
		return err
	}
	out, err := nbt.EncodeJSON(root)
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

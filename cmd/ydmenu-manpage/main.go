package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/ydmenu/cmd/ydmenu"
	"github.com/arthur-debert/ydmenu/internal/version"
)

func main() {
	rootCmd := ydmenu.New(ydmenu.Deps{}).NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "YDMENU",
		Section: "1",
		Source:  "ydmenu " + version.Version,
		Manual:  "ydmenu manual",
	}

	if err := doc.GenMan(rootCmd, header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/arthur-debert/ydmenu/cmd/ydmenu"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := ydmenu.New(ydmenu.Deps{}).Execute(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

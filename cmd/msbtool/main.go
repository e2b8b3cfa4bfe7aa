// msbtool inspects and catalogues MSB packet captures.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/Faultbox/maple-msb/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := NewRootCommand(os.Stdout).ExecuteContext(ctx)
	stop()
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

//go:build !windows

package shutdown

import (
	"os"
	"os/signal"
	"syscall"
)

func notify(ch chan os.Signal) {
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
}

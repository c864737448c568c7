package main

import (
	"fmt"
	"os"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("stack", string(debug.Stack())).Errorf("💥 Unexpected panic: %v", r)
			fmt.Fprintf(os.Stderr, "✗ unexpected error: %v\n", r)
			os.Exit(1)
		}
	}()

	Execute()
}

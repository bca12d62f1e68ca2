// Package main is the entry point for acp-sentinel, a reference
// validator for the Agent Client Protocol.
package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/kandev/acp-sentinel/internal/cli"
	"github.com/kandev/acp-sentinel/internal/common/logger"
	"github.com/kandev/acp-sentinel/internal/common/tracing"
)

var version = "dev"

func main() {
	root := cli.NewRootCmd(version)
	runErr := root.Execute()

	if err := tracing.Shutdown(context.Background()); err != nil {
		logger.Default().Error("tracing shutdown error", zap.Error(err))
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "acp-sentinel: %v\n", runErr)
		os.Exit(1)
	}
}

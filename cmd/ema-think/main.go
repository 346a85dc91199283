// Command ema-think asks a question and shows the robot's visible thinking
// followed by its answer.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/koscakluka/ema-thinking/core/config"
	"github.com/koscakluka/ema-thinking/core/decision"
	"github.com/koscakluka/ema-thinking/core/llms"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "ema-think",
	Short:         "Visible thinking for a social robot",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.AddCommand(newAskCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", errorCategory(err), err)
		os.Exit(1)
	}
}

func errorCategory(err error) string {
	var (
		configErr *config.Error
		parseErr  *decision.ParseError
	)
	switch {
	case errors.As(err, &configErr):
		return "Configuration error"
	case llms.IsTransportError(err), errors.As(err, &parseErr):
		return "API error"
	default:
		return "Unexpected error"
	}
}

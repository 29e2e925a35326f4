package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := NewRootCmd()
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree. Kept separate from Main so tests
// can execute commands in-process.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cinedex",
		Short:         "Index videos into a searchable quality/style metrics database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "", "Config file (default: ./cinedex.yaml)")
	root.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")

	root.AddCommand(newIndexCmd())
	root.AddCommand(newSearchCmd())
	return root
}

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

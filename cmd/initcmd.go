package cmd

import (
	"fmt"
	"os"

	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"

	"github.com/agentic-research/tsorg/api"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default tsorg.json into the current directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		const name = "tsorg.json"
		if _, err := os.Stat(name); err == nil {
			return fmt.Errorf("%s already exists", name)
		}
		data := oj.JSON(api.DefaultConfig(), 2)
		if err := os.WriteFile(name, []byte(data+"\n"), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		fmt.Printf("Wrote %s\n", name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

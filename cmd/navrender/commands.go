package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/navgest/internal/interact"
	"github.com/dgallion1/navgest/internal/nav"
)

var htmlCmd = &cobra.Command{
	Use:   "html FILE",
	Short: "Print the decorated navigation markup",
	Args:  cobra.ExactArgs(1),
	RunE:  runHTML,
}

var jsonCmd = &cobra.Command{
	Use:   "json FILE",
	Short: "Print the classified navigation tree as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runJSON,
}

var simulateCmd = &cobra.Command{
	Use:   "simulate FILE SCRIPT.json",
	Short: "Replay an event script and print the resulting state",
	Long: `Replays a JSON array of steps against the mounted navigation, e.g.

  [{"type":"hamburger"}, {"type":"click","item":"Collections"}, {"type":"advance","ms":10}]

Step types: click, expand, hamburger, back, key, focus, focusout, resize, advance.`,
	Args: cobra.ExactArgs(2),
	RunE: runSimulate,
}

func init() {
	htmlCmd.Flags().Int("width", 1440, "viewport width in CSS pixels")
	jsonCmd.Flags().Bool("content", false, "print the normalized content tree instead")
	simulateCmd.Flags().Int("width", 1440, "initial viewport width in CSS pixels")
	rootCmd.AddCommand(htmlCmd, jsonCmd, simulateCmd)
}

func runHTML(cmd *cobra.Command, args []string) error {
	width, _ := cmd.Flags().GetInt("width")
	s, err := mountFile(cmd.Context(), args[0], width)
	if err != nil {
		return err
	}
	defer s.c.Dispose()

	fmt.Fprintln(cmd.OutOrStdout(), s.html())
	return nil
}

func runJSON(cmd *cobra.Command, args []string) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")

	if asContent, _ := cmd.Flags().GetBool("content"); asContent {
		tree, err := parseFile(args[0])
		if err != nil {
			return err
		}
		return enc.Encode(nav.Normalize(tree))
	}

	s, err := mountFile(cmd.Context(), args[0], 1440)
	if err != nil {
		return err
	}
	defer s.c.Dispose()
	return enc.Encode(s.c.Tree())
}

func runSimulate(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[1])
	if err != nil {
		return fmt.Errorf("open script: %w", err)
	}
	script, err := interact.ParseScript(f)
	f.Close()
	if err != nil {
		return err
	}

	width, _ := cmd.Flags().GetInt("width")
	s, err := mountFile(cmd.Context(), args[0], width)
	if err != nil {
		return err
	}
	defer s.c.Dispose()

	if err := script.Run(s.c, s.clock); err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"state": s.c.State(),
		"html":  s.html(),
	})
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nutrino-ai/nutrino/internal/domain/document"
)

func newParseCmd() *cobra.Command {
	var (
		view   string
		labels []string
	)

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Assemble a generated document into labelled sections",
		Long: `Parse a generated recipe or meal plan from a file or stdin and print the
assembled document as JSON.

Examples:
  # Parse a recipe with the recipe view
  nutrinoctl parse --view recipe soup.md

  # Extract custom labels from stdin
  cat plan.md | nutrinoctl parse --labels Breakfast,Dinner -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			var doc document.ParsedDocument
			switch {
			case len(labels) > 0:
				doc = document.Assemble(content, labels...)
			default:
				v, ok := document.ViewByName(view)
				if !ok {
					return fmt.Errorf("unknown view %q (known: %s)", view, viewNames())
				}
				doc = v.Assemble(content)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(doc)
		},
	}

	cmd.Flags().StringVar(&view, "view", "recipe", "named view: "+viewNames())
	cmd.Flags().StringSliceVar(&labels, "labels", nil, "explicit section labels, overrides --view")
	return cmd
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	var (
		content []byte
		err     error
	)
	if len(args) == 0 || args[0] == "-" {
		content, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read from stdin: %w", err)
		}
	} else {
		content, err = os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
	}

	if strings.TrimSpace(string(content)) == "" {
		return "", fmt.Errorf("no content to parse")
	}
	return string(content), nil
}

func viewNames() string {
	views := document.Views()
	names := make([]string, 0, len(views))
	for _, v := range views {
		names = append(names, v.Name)
	}
	return strings.Join(names, ", ")
}

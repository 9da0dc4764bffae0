package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"quill/internal/diagfmt"
	"quill/internal/driver"
	"quill/internal/scan"
	"quill/internal/syntax"
)

var scanCmd = &cobra.Command{
	Use:   "scan [flags] [directory]",
	Short: "Find declarations marked with an attribute",
	Long:  `Parse all *.ql files and list the declarations carrying the requested attribute, with using-aliases resolved`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().String("attribute", "", "attribute name to search for (required)")
	scanCmd.Flags().String("kind", "class", "declaration kind (class|struct|interface|record|enum)")
	scanCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	_ = scanCmd.MarkFlagRequired("attribute")
}

type scanMatch struct {
	File string `json:"file"`
	Line uint32 `json:"line"`
	Col  uint32 `json:"col"`
	Kind string `json:"kind"`
	Name string `json:"name"`
}

// runScan executes the "scan" command: parses the sources, resolves global
// aliases and prints every declaration matched by the attribute scanner.
func runScan(cmd *cobra.Command, args []string) error {
	attribute, err := cmd.Flags().GetString("attribute")
	if err != nil {
		return fmt.Errorf("failed to get attribute flag: %w", err)
	}
	kindStr, err := cmd.Flags().GetString("kind")
	if err != nil {
		return fmt.Errorf("failed to get kind flag: %w", err)
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}

	kind, err := parseNodeKind(kindStr)
	if err != nil {
		return err
	}

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	jobs, err := cmd.Root().PersistentFlags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	colorMode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}

	srcDir, _, err := resolveSourceDir(args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	program, bag, err := driver.LoadDir(ctx, srcDir, maxDiagnostics, jobs, nil)
	if err != nil {
		return err
	}

	globals, err := scan.CollectGlobalAliases(ctx, program.Units(), jobs)
	if err != nil {
		return err
	}

	var matches []scanMatch
	for _, tree := range program.Units() {
		nodes, scanErr := scan.FindAttributedNodes(ctx, tree, globals, attribute, kind)
		if scanErr != nil {
			return scanErr
		}
		for _, node := range nodes {
			sp := tree.Node(node).Span
			file := program.FileSet().Get(sp.File)
			start, _ := program.FileSet().Resolve(sp)
			matches = append(matches, scanMatch{
				File: file.Path,
				Line: start.Line,
				Col:  start.Col,
				Kind: strings.TrimSpace(strings.ToLower(kindStr)),
				Name: tree.NameString(node),
			})
		}
	}

	bag.Sort()
	bag.Dedup()
	out := cmd.OutOrStdout()

	if format == "json" {
		payload := struct {
			Matches []scanMatch `json:"matches"`
			Count   int         `json:"count"`
		}{Matches: matches, Count: len(matches)}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(payload); err != nil {
			return err
		}
	} else {
		diagfmt.Pretty(out, bag, program.FileSet(), diagfmt.PrettyOpts{
			Color:    useColor(colorMode),
			PathMode: diagfmt.PathModeRelative,
		})
		for _, m := range matches {
			fmt.Fprintf(out, "%s:%d:%d: %s %s\n", m.File, m.Line, m.Col, m.Kind, m.Name)
		}
		fmt.Fprintf(out, "%d match(es)\n", len(matches))
	}

	if bag.HasErrors() {
		return fmt.Errorf("scan finished with errors")
	}
	return nil
}

func parseNodeKind(value string) (syntax.NodeKind, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "class":
		return syntax.KindClassDecl, nil
	case "struct":
		return syntax.KindStructDecl, nil
	case "interface":
		return syntax.KindInterfaceDecl, nil
	case "record":
		return syntax.KindRecordDecl, nil
	case "enum":
		return syntax.KindEnumDecl, nil
	default:
		return syntax.KindInvalid, fmt.Errorf("invalid --kind value %q (expected class|struct|interface|record|enum)", value)
	}
}

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Initialize a new quill project",
	Long: `Initialize a new quill project by creating a project manifest (quill.toml)
and a starter source file (main.ql). If [path|name] is omitted, initializes
the current directory. If a non-existing name is provided, a directory will be
created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

// runInit initializes a quill project at the specified target path (or the
// current working directory when no argument or "." is provided) by creating
// a quill.toml manifest and a main.ql starter file.
func runInit(cmd *cobra.Command, args []string) error {
	// Resolve target directory
	var target string
	if len(args) == 0 || args[0] == "." {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		target = wd
	} else {
		// treat as path or name relative to cwd
		arg := args[0]
		if !filepath.IsAbs(arg) {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			target = filepath.Join(wd, arg)
		} else {
			target = arg
		}
	}

	// Ensure directory exists
	if st, err := os.Stat(target); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err = os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %q: %w", target, err)
			}
		} else {
			return err
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	// Determine project name from directory basename
	name := filepath.Base(target)
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "quill-project"
	}

	// Create manifest file if not exists
	manifestPath := filepath.Join(target, "quill.toml")
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("project already initialized: %s exists", manifestPath)
	}

	manifest := buildDefaultManifest(name)
	if err := os.WriteFile(manifestPath, []byte(manifest), os.FileMode(0o600)); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	// Create main.ql if not exists
	mainPath := filepath.Join(target, "main.ql")
	createdMain := false
	if _, err := os.Stat(mainPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(mainPath, []byte(defaultMainQL()), 0o600); err != nil {
			return fmt.Errorf("failed to write main.ql: %w", err)
		}
		createdMain = true
	}

	rel := target
	if wd, err := os.Getwd(); err == nil {
		if r, err2 := filepath.Rel(wd, target); err2 == nil {
			rel = r
		}
	}
	fmt.Fprintf(os.Stdout, "Initialized quill project in %s\n", rel)
	fmt.Fprintf(os.Stdout, "  - quill.toml\n")
	if createdMain {
		fmt.Fprintf(os.Stdout, "  - main.ql\n")
	} else {
		fmt.Fprintf(os.Stdout, "  - main.ql (existing)\n")
	}
	return nil
}

// buildDefaultManifest returns a minimal TOML manifest for a quill project
// using the provided package name.
func buildDefaultManifest(name string) string {
	// Minimal TOML manifest used as a project marker.
	return fmt.Sprintf(`# Quill project manifest
[package]
name = "%s"
version = "0.1.0"

[generate]
source = "."
out = "generated"
`, name)
}

// defaultMainQL returns the starter source used when initializing a project:
// one registry-marked class the built-in generator will pick up.
func defaultMainQL() string {
	return `// Quill starter source.
global using Reg = Demo.Attributes.Registry;

namespace Demo {
    [Reg]
    class Hello {
    }
}
`
}

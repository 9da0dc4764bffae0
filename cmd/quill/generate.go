package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"quill/internal/diag"
	"quill/internal/diagfmt"
	"quill/internal/driver"
	"quill/internal/gen"
	"quill/internal/gencache"
	"quill/internal/generators"
	"quill/internal/observ"
	"quill/internal/pipeline"
	"quill/internal/source"
)

var generateCmd = &cobra.Command{
	Use:   "generate [flags] [directory]",
	Short: "Run source generators over a quill project",
	Long:  `Parse all *.ql files, run the registered generators and write the generated sources to the output directory`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().String("format", "pretty", "diagnostics output format (pretty|json)")
	generateCmd.Flags().String("ui", "auto", "interactive progress (auto|on|off)")
	generateCmd.Flags().String("out", "", "output directory (default from quill.toml, else \"generated\")")
	generateCmd.Flags().Bool("no-emit", false, "run generators without writing output files")
	generateCmd.Flags().Bool("disk-cache", false, "reuse generated output for unchanged inputs (experimental)")
	generateCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
}

// runGenerate executes the "generate" command: parses the project sources,
// runs a full generation pass and writes artifacts plus diagnostics in the
// chosen format. A non-zero exit is reported when diagnostics contain errors.
func runGenerate(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}

	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}

	outDir, err := cmd.Flags().GetString("out")
	if err != nil {
		return fmt.Errorf("failed to get out flag: %w", err)
	}
	noEmit, err := cmd.Flags().GetBool("no-emit")
	if err != nil {
		return fmt.Errorf("failed to get no-emit flag: %w", err)
	}
	useDiskCache, err := cmd.Flags().GetBool("disk-cache")
	if err != nil {
		return fmt.Errorf("failed to get disk-cache flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	jobs, err := cmd.Root().PersistentFlags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	colorMode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}

	srcDir, manifest, err := resolveSourceDir(args)
	if err != nil {
		return err
	}
	if outDir == "" {
		outDir = "generated"
		if manifest != nil {
			outDir = filepath.Join(manifest.Root, filepath.FromSlash(manifest.Config.Generate.Out))
		}
	}

	texts, err := loadAdditionalTexts(manifest)
	if err != nil {
		return err
	}

	timer := observ.NewTimer()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	run := func(sink pipeline.ProgressSink) generateOutcome {
		parsePhase := timer.Begin("parse")
		program, parseBag, err := driver.LoadDir(ctx, srcDir, maxDiagnostics, jobs, sink)
		timer.End(parsePhase, fmt.Sprintf("%d files", len(program.Units())))
		if err != nil {
			return generateOutcome{program: program, bag: parseBag, err: err}
		}

		d := driver.New(driver.Options{
			Jobs:           jobs,
			MaxDiagnostics: maxDiagnostics,
			Progress:       sink,
		})
		d, err = d.AddGenerators(generators.NewRegistry(), generators.NewMirror())
		if err != nil {
			return generateOutcome{program: program, bag: parseBag, err: err}
		}
		d = d.WithAdditionalTexts(texts...)

		// Дисковый кэш: идентичные входы — готовый вывод без запуска.
		var cache *gencache.DiskCache
		var cacheKey gencache.Digest
		if useDiskCache {
			cache, err = gencache.OpenDiskCache("quill")
			if err != nil {
				return generateOutcome{program: program, bag: parseBag, err: err}
			}
			names := generatorNames(d)
			cacheKey = gencache.RunKey(program.FileSet(), texts, names)
			var payload gencache.DiskPayload
			if hit, getErr := cache.Get(cacheKey, &payload); getErr == nil && hit {
				cached := program.WithGeneratedSources(gencache.FromPayload(&payload))
				return generateOutcome{program: cached, bag: parseBag}
			}
		}

		genPhase := timer.Begin("generate")
		_, newProgram, runBag, err := d.RunFullGeneration(ctx, program)
		timer.End(genPhase, fmt.Sprintf("%d artifacts", len(newProgram.GeneratedSources())))
		parseBag.Merge(runBag)
		if err != nil {
			return generateOutcome{program: newProgram, bag: parseBag, err: err}
		}

		if cache != nil && !parseBag.HasErrors() {
			payload := gencache.ToPayload(generatorNames(d), newProgram.GeneratedSources())
			if putErr := cache.Put(cacheKey, payload); putErr != nil {
				parseBag.Add(diag.NewWarning(diag.IOWriteFileError, source.Span{}, "failed to store disk cache: "+putErr.Error()))
			}
		}
		return generateOutcome{program: newProgram, bag: parseBag}
	}

	var outcome generateOutcome
	if shouldUseTUI(mode) && format == "pretty" && !quiet {
		files, listErr := driver.ListSourceFiles(srcDir)
		if listErr != nil {
			return listErr
		}
		names := append(files, "quill.Registry", "quill.Mirror")
		outcome = runGenerateWithUI("quill generate", names, run)
	} else {
		outcome = run(nil)
	}

	if outcome.bag != nil {
		outcome.bag.Sort()
		outcome.bag.Dedup()
		switch format {
		case "json":
			if err := diagfmt.JSON(cmd.OutOrStdout(), outcome.bag, outcome.program.FileSet(), diagfmt.JSONOpts{
				IncludePositions: true,
				PathMode:         diagfmt.PathModeRelative,
				IncludeNotes:     withNotes,
			}); err != nil {
				return err
			}
		default:
			diagfmt.Pretty(cmd.OutOrStdout(), outcome.bag, outcome.program.FileSet(), diagfmt.PrettyOpts{
				Color:     useColor(colorMode),
				PathMode:  diagfmt.PathModeRelative,
				ShowNotes: withNotes,
			})
		}
	}

	if outcome.err != nil {
		return outcome.err
	}

	if !noEmit {
		emitPhase := timer.Begin("emit")
		written, err := writeArtifacts(outDir, outcome.program.GeneratedSources())
		timer.End(emitPhase, fmt.Sprintf("%d files", written))
		if err != nil {
			return err
		}
		if !quiet && format == "pretty" {
			fmt.Fprintf(cmd.OutOrStdout(), "generated %d source(s) in %s\n", written, outDir)
		}
	}

	if showTimings && format == "pretty" {
		fmt.Fprint(cmd.OutOrStdout(), timer.Summary())
	}

	if outcome.bag != nil && outcome.bag.HasErrors() {
		return fmt.Errorf("generation finished with errors")
	}
	return nil
}

// loadAdditionalTexts читает additional texts, перечисленные в манифесте.
func loadAdditionalTexts(manifest *projectManifest) ([]gen.AdditionalText, error) {
	if manifest == nil {
		return nil, nil
	}
	texts := make([]gen.AdditionalText, 0, len(manifest.Config.Generate.Texts))
	for _, rel := range manifest.Config.Generate.Texts {
		path := filepath.Join(manifest.Root, filepath.FromSlash(rel))
		// #nosec G304 -- path comes from the project's own manifest
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read additional text %q: %w", path, err)
		}
		texts = append(texts, gen.AdditionalText{Path: path, Content: string(content)})
	}
	return texts, nil
}

func generatorNames(d driver.Driver) []string {
	gens := d.Generators()
	names := make([]string, len(gens))
	for i, g := range gens {
		names[i] = g.Name()
	}
	return names
}

// writeArtifacts пишет каждый артефакт в <outDir>/<hint name>.
func writeArtifacts(outDir string, artifacts []gen.GeneratedSource) (int, error) {
	if len(artifacts) == 0 {
		return 0, nil
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return 0, err
	}
	written := 0
	for _, art := range artifacts {
		path := filepath.Join(outDir, filepath.FromSlash(art.HintName))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return written, err
		}
		if err := os.WriteFile(path, []byte(art.Content), 0o600); err != nil {
			return written, fmt.Errorf("failed to write %q: %w", path, err)
		}
		written++
	}
	return written, nil
}

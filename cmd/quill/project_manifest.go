package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const noQuillTomlMessage = "no quill.toml found\nplease specify the source directory explicitly, e.g.:\n  quill generate path/to/sources"

type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
}

type projectConfig struct {
	Package  packageConfig  `toml:"package"`
	Generate generateConfig `toml:"generate"`
}

type packageConfig struct {
	Name string `toml:"name"`
}

type generateConfig struct {
	// Source — директория с *.ql исходниками, относительно корня проекта.
	Source string `toml:"source"`
	// Out — куда писать сгенерированные артефакты.
	Out string `toml:"out"`
	// Texts — пути additional texts (не исходники).
	Texts []string `toml:"texts"`
}

func findQuillToml(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "quill.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadProjectManifest(startDir string) (*projectManifest, bool, error) {
	manifestPath, ok, err := findQuillToml(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadProjectConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &projectManifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

func loadProjectConfig(path string) (projectConfig, error) {
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return projectConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return projectConfig{}, fmt.Errorf("%s: missing [package]", path)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return projectConfig{}, fmt.Errorf("%s: missing [package].name", path)
	}
	if strings.TrimSpace(cfg.Generate.Source) == "" {
		cfg.Generate.Source = "."
	}
	if strings.TrimSpace(cfg.Generate.Out) == "" {
		cfg.Generate.Out = "generated"
	}
	return cfg, nil
}

// resolveSourceDir возвращает директорию исходников: аргумент команды, иначе
// манифест, иначе ошибка с подсказкой.
func resolveSourceDir(args []string) (string, *projectManifest, error) {
	if len(args) > 0 {
		manifest, _, err := loadProjectManifest(args[0])
		if err != nil {
			return "", nil, err
		}
		return args[0], manifest, nil
	}
	manifest, ok, err := loadProjectManifest(".")
	if err != nil {
		return "", nil, err
	}
	if !ok {
		return "", nil, errors.New(noQuillTomlMessage)
	}
	return filepath.Join(manifest.Root, filepath.FromSlash(manifest.Config.Generate.Source)), manifest, nil
}

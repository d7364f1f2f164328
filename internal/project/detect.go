package project

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

const (
	maxScanDepth = 3
	maxScanFiles = 2000
)

// Info describes what could be detected about the developer's working
// directory. It feeds both the planner system prompt and the generator
// prompt so questions and rules can reference the actual setup.
type Info struct {
	Languages  []string // most common first
	Frameworks []string
	Linters    []string
	IDEs       []string
	HasGit     bool
	HasDocker  bool
	HasTests   bool
}

// Empty reports whether nothing useful was detected.
func (i *Info) Empty() bool {
	return len(i.Languages) == 0 && len(i.Frameworks) == 0 && len(i.Linters) == 0 &&
		len(i.IDEs) == 0 && !i.HasGit && !i.HasDocker && !i.HasTests
}

// Summary renders the detection result as prompt-ready bullet lines.
func (i *Info) Summary() string {
	var sb strings.Builder
	if len(i.Languages) > 0 {
		fmt.Fprintf(&sb, "- Languages: %s\n", strings.Join(i.Languages, ", "))
	}
	if len(i.Frameworks) > 0 {
		fmt.Fprintf(&sb, "- Build/frameworks: %s\n", strings.Join(i.Frameworks, ", "))
	}
	if len(i.Linters) > 0 {
		fmt.Fprintf(&sb, "- Linting: %s\n", strings.Join(i.Linters, ", "))
	}
	if len(i.IDEs) > 0 {
		fmt.Fprintf(&sb, "- Editor config: %s\n", strings.Join(i.IDEs, ", "))
	}
	if i.HasTests {
		sb.WriteString("- Has a test suite\n")
	}
	if i.HasDocker {
		sb.WriteString("- Uses Docker\n")
	}
	if i.HasGit {
		sb.WriteString("- Uses Git\n")
	}
	return sb.String()
}

var extLanguages = map[string]string{
	".go":    "Go",
	".py":    "Python",
	".ts":    "TypeScript",
	".tsx":   "TypeScript",
	".js":    "JavaScript",
	".jsx":   "JavaScript",
	".rs":    "Rust",
	".java":  "Java",
	".kt":    "Kotlin",
	".rb":    "Ruby",
	".php":   "PHP",
	".swift": "Swift",
	".cs":    "C#",
	".c":     "C",
	".cpp":   "C++",
	".cc":    "C++",
	".ex":    "Elixir",
	".exs":   "Elixir",
}

var markerFrameworks = map[string]string{
	"go.mod":           "Go modules",
	"package.json":     "Node.js",
	"pyproject.toml":   "Python (pyproject)",
	"requirements.txt": "Python (pip)",
	"Cargo.toml":       "Cargo",
	"pom.xml":          "Maven",
	"build.gradle":     "Gradle",
	"Gemfile":          "Bundler",
	"Makefile":         "Make",
}

var markerLinters = map[string]string{
	".golangci.yml":   "golangci-lint",
	".golangci.yaml":  "golangci-lint",
	".eslintrc":       "ESLint",
	".eslintrc.json":  "ESLint",
	".eslintrc.js":    "ESLint",
	".prettierrc":     "Prettier",
	".flake8":         "flake8",
	"ruff.toml":       "Ruff",
	".rubocop.yml":    "RuboCop",
	".editorconfig":   "EditorConfig",
}

var markerIDEs = map[string]string{
	".vscode": "VS Code",
	".idea":   "JetBrains",
	".cursor": "Cursor",
	".zed":    "Zed",
}

var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	"target":       true,
	"__pycache__":  true,
	".venv":        true,
}

// Scan inspects root (bounded depth and file count) and returns what it
// finds. Detection is best-effort: unreadable paths are skipped, never
// fatal.
func Scan(ctx context.Context, root string) (*Info, error) {
	info := &Info{}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		langs, hasTests, err := scanLanguages(ctx, root)
		if err != nil {
			return err
		}
		mu.Lock()
		info.Languages = langs
		info.HasTests = info.HasTests || hasTests
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil // nothing detectable, not an error
		}
		mu.Lock()
		defer mu.Unlock()
		for _, e := range entries {
			name := e.Name()
			if fw, ok := markerFrameworks[name]; ok {
				info.Frameworks = append(info.Frameworks, fw)
			}
			if lint, ok := markerLinters[name]; ok {
				info.Linters = append(info.Linters, lint)
			}
			if ide, ok := markerIDEs[name]; ok && e.IsDir() {
				info.IDEs = append(info.IDEs, ide)
			}
			switch {
			case name == ".git" && e.IsDir():
				info.HasGit = true
			case name == "Dockerfile" || name == "docker-compose.yml" || name == "compose.yaml":
				info.HasDocker = true
			case e.IsDir() && (name == "test" || name == "tests" || name == "spec" || name == "__tests__"):
				info.HasTests = true
			}
		}
		sort.Strings(info.Frameworks)
		sort.Strings(info.Linters)
		sort.Strings(info.IDEs)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return info, nil
}

// scanLanguages walks root counting source files per language. The walk is
// capped so a huge tree cannot stall the interview start.
func scanLanguages(ctx context.Context, root string) ([]string, bool, error) {
	counts := make(map[string]int)
	hasTests := false
	seen := 0

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return fs.SkipDir
			}
			rel, relErr := filepath.Rel(root, path)
			if relErr == nil && rel != "." && strings.Count(rel, string(os.PathSeparator)) >= maxScanDepth {
				return fs.SkipDir
			}
			return nil
		}
		seen++
		if seen > maxScanFiles {
			return fs.SkipAll
		}
		if lang, ok := extLanguages[filepath.Ext(d.Name())]; ok {
			counts[lang]++
			if strings.Contains(d.Name(), "_test.") || strings.Contains(d.Name(), ".test.") ||
				strings.HasPrefix(d.Name(), "test_") {
				hasTests = true
			}
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	langs := make([]string, 0, len(counts))
	for l := range counts {
		langs = append(langs, l)
	}
	sort.Slice(langs, func(i, j int) bool {
		if counts[langs[i]] != counts[langs[j]] {
			return counts[langs[i]] > counts[langs[j]]
		}
		return langs[i] < langs[j]
	})
	return langs, hasTests, nil
}

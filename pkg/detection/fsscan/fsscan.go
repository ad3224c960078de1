package fsscan

import (
	"encoding/json"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"stackscan/pkg/detection/errs"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// DefaultMaxDepth bounds directory recursion during a project scan
const DefaultMaxDepth = 6

// ignoreDirs are conventional dependency/build output folders skipped during
// scanning
var ignoreDirs = map[string]struct{}{
	".git":         {},
	"node_modules": {},
	".venv":        {},
	"venv":         {},
	"dist":         {},
	"build":        {},
	"target":       {},
	"vendor":       {},
	"__pycache__":  {},
	".next":        {},
	".nuxt":        {},
}

// Scanner provides bounded filesystem access abstracted over fs.FS
type Scanner struct {
	fsys     fs.FS
	maxDepth int
}

// New creates a Scanner rooted at an on-disk directory
func New(root string) *Scanner {
	return NewFS(os.DirFS(root))
}

// NewFS creates a Scanner over an arbitrary filesystem
func NewFS(fsys fs.FS) *Scanner {
	return &Scanner{fsys: fsys, maxDepth: DefaultMaxDepth}
}

// WithMaxDepth overrides the recursion bound
func (s *Scanner) WithMaxDepth(depth int) *Scanner {
	s.maxDepth = depth
	return s
}

// Has checks if a file exists at the given path
func (s *Scanner) Has(path string) bool {
	_, err := fs.Stat(s.fsys, path)
	return err == nil
}

// DirExists checks if a directory exists at the given path
func (s *Scanner) DirExists(path string) bool {
	fi, err := fs.Stat(s.fsys, path)
	return err == nil && fi.IsDir()
}

// Read reads a file and returns its content as a string, empty on any error
func (s *Scanner) Read(path string) string {
	f, err := s.fsys.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return ""
	}
	return string(data)
}

// ReadConfig parses a config file into a generic structure. JSON, YAML, TOML
// and INI are recognized by extension; anything else (or a parse failure on a
// recognized extension) falls back to the raw content under a "raw" key
// rather than failing.
func (s *Scanner) ReadConfig(path string) (map[string]any, error) {
	f, err := s.fsys.Open(path)
	if err != nil {
		return nil, errs.WrapPath(errs.FileSystemFailure, "fsscan", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errs.WrapPath(errs.FileSystemFailure, "fsscan", path, err)
	}

	out := map[string]any{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &out); err == nil {
			return out, nil
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &out); err == nil {
			return out, nil
		}
	case ".toml":
		if err := toml.Unmarshal(data, &out); err == nil {
			return out, nil
		}
	case ".ini", ".cfg":
		if file, err := ini.Load(data); err == nil {
			for _, section := range file.Sections() {
				vals := map[string]any{}
				for _, key := range section.Keys() {
					vals[key.Name()] = key.Value()
				}
				out[section.Name()] = vals
			}
			return out, nil
		}
	}

	return map[string]any{"raw": string(data)}, nil
}

// ScanTree walks the filesystem up to the depth bound and returns all file
// paths plus extension counts. Ignore-directories are skipped. Walk errors on
// individual entries are tolerated.
func (s *Scanner) ScanTree() ([]string, map[string]int, error) {
	var files []string
	extCounts := map[string]int{}

	err := fs.WalkDir(s.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		if d.IsDir() {
			if _, skip := ignoreDirs[filepath.Base(p)]; skip {
				return fs.SkipDir
			}
			if p != "." && strings.Count(p, "/")+1 >= s.maxDepth {
				return fs.SkipDir
			}
			return nil
		}

		files = append(files, p)
		ext := strings.ToLower(filepath.Ext(p))
		if ext != "" {
			extCounts[ext]++
		}
		return nil
	})
	if err != nil {
		return files, extCounts, errs.Wrap(errs.FileSystemFailure, "fsscan", err)
	}

	return files, extCounts, nil
}

// ContainsExt checks if the file list contains files with the given extension
func ContainsExt(files []string, ext string) bool {
	for _, f := range files {
		if strings.HasSuffix(strings.ToLower(f), ext) {
			return true
		}
	}
	return false
}

// FilterExt returns at most limit files carrying the given extension
func FilterExt(files []string, ext string, limit int) []string {
	var out []string
	for _, f := range files {
		if strings.HasSuffix(strings.ToLower(f), ext) {
			out = append(out, f)
			if len(out) >= limit {
				break
			}
		}
	}
	return out
}

// DominantLanguage determines the dominant language from extension counts
func DominantLanguage(extCounts map[string]int) string {
	langScores := map[string]int{}
	for ext, n := range extCounts {
		langScores[mapExt(ext)] += n
	}
	bestLang := "Unknown"
	best := 0
	for lang, n := range langScores {
		if n > best && lang != "Other" {
			best = n
			bestLang = lang
		}
	}
	return bestLang
}

// mapExt maps file extensions to language names
func mapExt(ext string) string {
	switch ext {
	case ".py":
		return "Python"
	case ".js", ".jsx", ".ts", ".tsx", ".vue", ".svelte":
		return "JavaScript/TypeScript"
	case ".go":
		return "Go"
	case ".rs":
		return "Rust"
	case ".java", ".kt":
		return "Java"
	case ".rb":
		return "Ruby"
	case ".php":
		return "PHP"
	case ".cs":
		return "C#"
	default:
		return "Other"
	}
}

package harness

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultTimeout bounds each case when the manifest names none.
const DefaultTimeout = 5 * time.Second

// Manifest is a parsed example suite.
type Manifest struct {
	Path    string
	Dir     string
	Timeout time.Duration
	Cases   []Case
}

// Case is one program with its expected printed output. Source is
// either read from File (relative to the manifest) or given inline.
type Case struct {
	Name    string
	File    string
	Source  string
	Expect  string
	Timeout time.Duration
}

type manifestFile struct {
	Timeout string     `yaml:"timeout"`
	Cases   []caseFile `yaml:"cases"`
}

type caseFile struct {
	Name    string `yaml:"name"`
	File    string `yaml:"file"`
	Source  string `yaml:"source"`
	Expect  string `yaml:"expect"`
	Timeout string `yaml:"timeout"`
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadManifest parses a YAML suite from disk.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	m, err := DecodeManifest(file, filepath.Dir(absPath))
	if err != nil {
		return nil, fmt.Errorf("manifest: %s: %w", absPath, err)
	}
	m.Path = absPath
	return m, nil
}

// DecodeManifest reads a suite from r; relative case files resolve
// against dir.
func DecodeManifest(r io.Reader, dir string) (*Manifest, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty manifest")
		}
		return nil, fmt.Errorf("parse: %w", err)
	}
	return raw.toManifest(dir)
}

func (raw manifestFile) toManifest(dir string) (*Manifest, error) {
	var errs ValidationError
	m := &Manifest{Dir: dir, Timeout: DefaultTimeout}
	if raw.Timeout != "" {
		d, err := time.ParseDuration(raw.Timeout)
		if err != nil || d <= 0 {
			errs.Issues = append(errs.Issues, fmt.Sprintf("timeout %q is not a positive duration", raw.Timeout))
		} else {
			m.Timeout = d
		}
	}
	if len(raw.Cases) == 0 {
		errs.Issues = append(errs.Issues, "cases must not be empty")
	}
	seen := map[string]bool{}
	for i, c := range raw.Cases {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			name = c.File
		}
		switch {
		case name == "":
			errs.Issues = append(errs.Issues, fmt.Sprintf("cases[%d] needs a name or file", i))
		case seen[name]:
			errs.Issues = append(errs.Issues, fmt.Sprintf("cases[%d]: duplicate name %q", i, name))
		}
		seen[name] = true
		if (c.File == "") == (c.Source == "") {
			errs.Issues = append(errs.Issues, fmt.Sprintf("cases[%d]: exactly one of file or source is required", i))
		}
		tc := Case{Name: name, Source: c.Source, Expect: c.Expect, Timeout: m.Timeout}
		if c.File != "" {
			tc.File = c.File
			if !filepath.IsAbs(tc.File) {
				tc.File = filepath.Join(dir, tc.File)
			}
		}
		if c.Timeout != "" {
			d, err := time.ParseDuration(c.Timeout)
			if err != nil || d <= 0 {
				errs.Issues = append(errs.Issues, fmt.Sprintf("cases[%d]: timeout %q is not a positive duration", i, c.Timeout))
			} else {
				tc.Timeout = d
			}
		}
		m.Cases = append(m.Cases, tc)
	}
	if len(errs.Issues) > 0 {
		return nil, &errs
	}
	return m, nil
}

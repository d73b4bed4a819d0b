package facts

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// maxFileBytes caps how much of any single text file is read into a fact.
const maxFileBytes = 1 << 20

// manifestFile is the version manifest every conforming target carries.
const manifestFile = "version.json"

// headingVersion matches a released version in a changelog heading,
// e.g. "## [1.4.0] - 2026-01-12" or "## 1.4.0".
var headingVersion = regexp.MustCompile(`^##\s*\[?v?(\d+\.\d+\.\d+[^\]\s]*)`)

// Extractor walks a target's artifact tree and builds its fact bag.
// It performs all filesystem access up front so the scoring engine can stay
// a pure function of the bag. Extractor is stateless and safe for
// concurrent use.
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor creates a new fact extractor.
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		logger: logger.With("component", "facts.extractor"),
	}
}

// Extract builds the fact bag for the target rooted at targetPath.
// A missing or unreadable target, or a corrupt version manifest, returns an
// ExtractionError; individually missing artifacts (no README, no LICENSE)
// are recorded as facts, not errors, so rules can score their absence.
func (e *Extractor) Extract(ctx context.Context, targetPath string) (*Bag, error) {
	info, err := os.Stat(targetPath)
	if err != nil {
		return nil, NewExtractionError(targetPath, "target path not accessible", err)
	}
	if !info.IsDir() {
		return nil, NewExtractionError(targetPath, "target path is not a directory", nil)
	}

	values := map[string]any{
		"target.name": filepath.Base(targetPath),
	}

	if err := e.extractTree(ctx, targetPath, values); err != nil {
		return nil, err
	}
	if err := e.extractManifest(targetPath, values); err != nil {
		return nil, err
	}
	e.extractReadme(targetPath, values)
	e.extractChangelog(targetPath, values)
	e.extractLicense(targetPath, values)

	e.logger.Debug("fact extraction complete",
		"target", targetPath,
		"facts", len(values),
	)

	return NewBag(values), nil
}

// extractTree walks the tree and records file counts and depth.
func (e *Extractor) extractTree(ctx context.Context, root string, values map[string]any) error {
	var total, markdown, depth int

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}

		// Skip hidden directories (VCS metadata, editor state).
		if d.IsDir() && strings.HasPrefix(d.Name(), ".") && rel != "." {
			return filepath.SkipDir
		}
		if d.IsDir() {
			if n := strings.Count(rel, string(filepath.Separator)) + 1; rel != "." && n > depth {
				depth = n
			}
			return nil
		}

		total++
		if strings.EqualFold(filepath.Ext(path), ".md") {
			markdown++
		}
		return nil
	})
	if err != nil {
		return NewExtractionError(root, "failed to walk target tree", err)
	}

	values["files.total"] = total
	values["docs.count"] = markdown
	values["tree.depth"] = depth
	return nil
}

// extractManifest reads version.json. An absent manifest is a fact; a
// present but unparsable one means the target's identity cannot be trusted
// and extraction fails.
func (e *Extractor) extractManifest(root string, values map[string]any) error {
	path := filepath.Join(root, manifestFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		values["manifest.exists"] = false
		return nil
	}
	if err != nil {
		return NewExtractionError(root, "failed to read version manifest", err)
	}

	var manifest map[string]any
	if err := json.Unmarshal(data, &manifest); err != nil {
		return NewExtractionError(root, "version manifest is not valid JSON", err)
	}

	values["manifest.exists"] = true
	for key, fact := range map[string]string{
		"name":           "manifest.name",
		"version":        "manifest.version",
		"schema_version": "manifest.schema_version",
	} {
		if s, ok := manifest[key].(string); ok && s != "" {
			values[fact] = s
		}
	}
	return nil
}

func (e *Extractor) extractReadme(root string, values map[string]any) {
	text, ok := e.readTextFile(root, "README.md")
	values["readme.exists"] = ok
	if !ok {
		return
	}

	values["readme.text"] = text

	var title string
	sections := 0
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 64*1024), 64*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if title == "" && strings.HasPrefix(line, "# ") {
			title = strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
		if strings.HasPrefix(line, "## ") {
			sections++
		}
	}

	if title != "" {
		values["readme.title"] = title
	}
	values["readme.sections"] = sections
}

func (e *Extractor) extractChangelog(root string, values map[string]any) {
	text, ok := e.readTextFile(root, "CHANGELOG.md")
	values["changelog.exists"] = ok
	if !ok {
		return
	}

	values["changelog.text"] = text

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 64*1024), 64*1024)
	for scanner.Scan() {
		if m := headingVersion.FindStringSubmatch(scanner.Text()); m != nil {
			values["changelog.latest_version"] = m[1]
			break
		}
	}
}

func (e *Extractor) extractLicense(root string, values map[string]any) {
	for _, name := range []string{"LICENSE", "LICENSE.md", "LICENSE.txt"} {
		if text, ok := e.readTextFile(root, name); ok {
			values["license.exists"] = true
			values["license.text"] = text
			return
		}
	}
	values["license.exists"] = false
}

// readTextFile reads a file under root, capped at maxFileBytes.
// The second return is false if the file does not exist or cannot be read.
func (e *Extractor) readTextFile(root, name string) (string, bool) {
	path := filepath.Join(root, name)
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxFileBytes))
	if err != nil {
		return "", false
	}
	return string(data), true
}

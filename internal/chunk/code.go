// Package chunk splits file content into scope-delimited Chunks: regex
// boundary detection with overlapping-window sub-split for code, and
// paragraph-greedy accumulation with overlap carry-over for documents.
package chunk

import (
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/codesight/codesight/internal/model"
)

// boundaryPatterns matches the START of a new top-level scope, per
// language. Deliberately regex-based rather than a full parse: cheap,
// language-agnostic to extend, and close enough for retrieval-quality
// chunk boundaries.
var boundaryPatterns = map[string]*regexp.Regexp{
	"python":     regexp.MustCompile(`(?m)^(class |def |async def )`),
	"javascript": regexp.MustCompile(`(?m)^(export\s+)?(function |class |const \w+ = |let \w+ = |var \w+ = )`),
	"typescript": regexp.MustCompile(`(?m)^(export\s+)?(function |class |const \w+ = |let \w+ = |interface |type |enum )`),
	"go":         regexp.MustCompile(`(?m)^(func |type )`),
	"rust":       regexp.MustCompile(`(?m)^(pub\s+)?(fn |struct |enum |impl |trait |mod )`),
	"java":       regexp.MustCompile(`(?m)^(public |private |protected )?(static )?(class |interface |enum |void |int |String )`),
	"ruby":       regexp.MustCompile(`(?m)^(class |module |def )`),
	"php":        regexp.MustCompile(`(?m)^(class |function |public |private |protected )`),
	"c":          regexp.MustCompile(`(?m)^(\w+\s+\*?\w+\s*\()`),
	"cpp":        regexp.MustCompile(`(?m)^(class |struct |namespace |template |(\w+\s+\*?\w+\s*\())`),
}

var extToLang = map[string]string{
	".py":  "python",
	".js":  "javascript", ".jsx": "javascript", ".mjs": "javascript",
	".ts":  "typescript", ".tsx": "typescript",
	".go":  "go",
	".rs":  "rust",
	".java": "java", ".kt": "java", ".scala": "java",
	".rb":  "ruby", ".rake": "ruby",
	".php": "php",
	".c":   "c", ".h": "c",
	".cpp": "cpp", ".hpp": "cpp", ".cc": "cpp", ".cxx": "cpp",
	".cs":  "java", // close enough for boundary detection
}

func detectLanguage(filePath string) string {
	ext := strings.ToLower(filepath.Ext(filePath))
	if lang, ok := extToLang[ext]; ok {
		return lang
	}
	return "unknown"
}

var (
	pyDef     = regexp.MustCompile(`^(async\s+)?def\s+(\w+)`)
	pyClass   = regexp.MustCompile(`^class\s+(\w+)`)
	jsFunc    = regexp.MustCompile(`^(?:export\s+)?function\s+(\w+)`)
	jsClass   = regexp.MustCompile(`^(?:export\s+)?class\s+(\w+)`)
	jsConst   = regexp.MustCompile(`^(?:export\s+)?(?:const|let|var)\s+(\w+)`)
	goFunc    = regexp.MustCompile(`^func\s+(?:\(\w+\s+\*?\w+\)\s+)?(\w+)`)
	goType    = regexp.MustCompile(`^type\s+(\w+)`)
	rustFn    = regexp.MustCompile(`^(?:pub\s+)?fn\s+(\w+)`)
	rustStruct = regexp.MustCompile(`^(?:pub\s+)?struct\s+(\w+)`)
	rustImpl  = regexp.MustCompile(`^(?:pub\s+)?impl\s+(\w+)`)
)

// detectScope extracts a human-readable scope label from the first line of
// a chunk, e.g. "function foo" or "class Bar". Falls back to the first
// whitespace-delimited token when no language-specific pattern matches.
func detectScope(firstLine, language string) string {
	firstLine = strings.TrimSpace(firstLine)
	if firstLine == "" {
		return "module-level"
	}

	switch language {
	case "python":
		if m := pyDef.FindStringSubmatch(firstLine); m != nil {
			return "function " + m[2]
		}
		if m := pyClass.FindStringSubmatch(firstLine); m != nil {
			return "class " + m[1]
		}
	case "javascript", "typescript":
		if m := jsFunc.FindStringSubmatch(firstLine); m != nil {
			return "function " + m[1]
		}
		if m := jsClass.FindStringSubmatch(firstLine); m != nil {
			return "class " + m[1]
		}
		if m := jsConst.FindStringSubmatch(firstLine); m != nil {
			return "const " + m[1]
		}
	case "go":
		if m := goFunc.FindStringSubmatch(firstLine); m != nil {
			return "function " + m[1]
		}
		if m := goType.FindStringSubmatch(firstLine); m != nil {
			return "type " + m[1]
		}
	case "rust":
		if m := rustFn.FindStringSubmatch(firstLine); m != nil {
			return "function " + m[1]
		}
		if m := rustStruct.FindStringSubmatch(firstLine); m != nil {
			return "struct " + m[1]
		}
		if m := rustImpl.FindStringSubmatch(firstLine); m != nil {
			return "impl " + m[1]
		}
	}

	tokens := strings.Fields(firstLine)
	if len(tokens) > 0 {
		return tokens[0]
	}
	return "unknown"
}

func makeContextHeader(filePath, scope string, startLine, endLine int) string {
	return "# File: " + filePath + "\n" +
		"# Scope: " + scope + "\n" +
		"# Lines: " + strconv.Itoa(startLine) + "-" + strconv.Itoa(endLine)
}

// CodeOptions configures File, the code chunker.
type CodeOptions struct {
	MaxLines     int
	OverlapLines int
}

// File splits a file's content into scope-delimited chunks.
//
//  1. If a language-specific boundary pattern exists, split on those
//     boundaries.
//  2. Each split becomes one chunk, unless it exceeds MaxLines, in which
//     case it is sub-split into overlapping windows.
//  3. If no pattern is known for the language, fall back to overlapping
//     windows over the whole file.
func File(content, filePath string, opts CodeOptions) []model.Chunk {
	if strings.TrimSpace(content) == "" {
		return nil
	}

	lines := strings.Split(content, "\n")
	language := detectLanguage(filePath)
	pattern, ok := boundaryPatterns[language]

	if language == "python" {
		if tsLines, tsOK := pythonBoundaryLines([]byte(content)); tsOK {
			return splitByBoundaryLines(lines, filePath, language, mergeBoundaries(tsLines, len(lines)), opts)
		}
	}

	if ok {
		return splitByBoundaries(lines, filePath, language, pattern, opts)
	}
	return splitByWindows(lines, filePath, language, opts, 0)
}

// mergeBoundaries dedupes and sorts tree-sitter-reported boundary lines,
// always including line 0 the same way the regex path does.
func mergeBoundaries(lines []int, total int) []int {
	seen := map[int]bool{0: true}
	boundaries := []int{0}
	for _, l := range lines {
		if l <= 0 || l >= total || seen[l] {
			continue
		}
		seen[l] = true
		boundaries = append(boundaries, l)
	}
	sort.Ints(boundaries)
	return boundaries
}

func splitByBoundaries(lines []string, filePath, language string, pattern *regexp.Regexp, opts CodeOptions) []model.Chunk {
	boundaries := []int{0}
	for i, line := range lines {
		if i == 0 {
			continue
		}
		if pattern.MatchString(line) {
			boundaries = append(boundaries, i)
		}
	}
	return splitByBoundaryLines(lines, filePath, language, boundaries, opts)
}

func splitByBoundaryLines(lines []string, filePath, language string, boundaries []int, opts CodeOptions) []model.Chunk {
	var chunks []model.Chunk
	for idx, start := range boundaries {
		end := len(lines)
		if idx+1 < len(boundaries) {
			end = boundaries[idx+1]
		}
		segment := lines[start:end]

		if len(segment) <= opts.MaxLines {
			scope := ""
			if len(segment) > 0 {
				scope = detectScope(segment[0], language)
			} else {
				scope = detectScope("", language)
			}
			header := makeContextHeader(filePath, scope, start+1, end)
			chunks = append(chunks, model.NewChunk(filePath, start+1, end, strings.Join(segment, "\n"), scope, language, header))
		} else {
			chunks = append(chunks, splitByWindows(segment, filePath, language, opts, start)...)
		}
	}
	return chunks
}

func splitByWindows(lines []string, filePath, language string, opts CodeOptions, lineOffset int) []model.Chunk {
	var chunks []model.Chunk
	i := 0
	for i < len(lines) {
		end := i + opts.MaxLines
		if end > len(lines) {
			end = len(lines)
		}
		segment := lines[i:end]
		scope := ""
		if len(segment) > 0 {
			scope = detectScope(segment[0], language)
		} else {
			scope = detectScope("", language)
		}
		startLine := lineOffset + i + 1
		endLine := lineOffset + end
		header := makeContextHeader(filePath, scope, startLine, endLine)
		chunks = append(chunks, model.NewChunk(filePath, startLine, endLine, strings.Join(segment, "\n"), scope, language, header))

		i += opts.MaxLines - opts.OverlapLines
		if i >= len(lines) {
			break
		}
	}
	return chunks
}

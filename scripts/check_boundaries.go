package main

import (
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	modulePath   = "atelier"
	contextsRoot = "contexts"
)

type violation struct {
	File   string
	Line   int
	Import string
	Rule   string
}

// layerRule constrains what a service layer may import. Paths under
// "{service}" are expanded to the importing service's own prefix.
type layerRule struct {
	forbidAdapters bool
	forbidInternal bool
	allowed        []string
}

var layerRules = map[string]layerRule{
	"domain": {
		forbidAdapters: true,
		forbidInternal: true,
		allowed:        []string{"{service}/domain", modulePath + "/contracts/failure"},
	},
	"ports": {
		forbidAdapters: true,
		forbidInternal: true,
		allowed:        []string{"{service}/domain", modulePath + "/contracts"},
	},
	"application": {
		forbidAdapters: true,
		forbidInternal: true,
		allowed: []string{
			"{service}/application",
			"{service}/domain",
			"{service}/ports",
			modulePath + "/contracts",
			"go.opentelemetry.io/otel",
			"golang.org/x/sync",
		},
	},
	"transport": {
		forbidAdapters: true,
		forbidInternal: true,
	},
}

func main() {
	root := contextsRoot
	if len(os.Args) > 1 {
		root = os.Args[1]
	}

	violations := collectViolations(root)
	if len(violations) == 0 {
		fmt.Println("boundary checks passed")
		return
	}

	fmt.Printf("%d boundary violation(s):\n", len(violations))
	for _, v := range violations {
		fmt.Printf("- %s:%d imports %q (%s)\n", v.File, v.Line, v.Import, v.Rule)
	}
	os.Exit(1)
}

// collectViolations walks root, which must be laid out as
// <root>/<context>/<service>/<layer>/..., and returns sorted findings.
func collectViolations(root string) []violation {
	var violations []violation

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")
		if len(parts) < 4 {
			return nil
		}

		servicePrefix := strings.Join([]string{modulePath, contextsRoot, parts[0], parts[1]}, "/")
		violations = append(violations, checkFile(path, filepath.ToSlash(path), parts[2], servicePrefix)...)
		return nil
	})

	sort.Slice(violations, func(i, j int) bool {
		a, b := violations[i], violations[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Import < b.Import
	})
	return violations
}

func checkFile(path string, display string, layer string, servicePrefix string) []violation {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
	if err != nil {
		return []violation{{File: display, Line: 1, Rule: "file must parse"}}
	}

	rule, hasRule := layerRules[layer]
	var found []violation
	for _, imp := range file.Imports {
		importPath := strings.Trim(imp.Path.Value, `"`)
		add := func(reason string) {
			found = append(found, violation{
				File:   display,
				Line:   fset.Position(imp.Pos()).Line,
				Import: importPath,
				Rule:   reason,
			})
		}

		if hasPrefix(importPath, modulePath+"/"+contextsRoot) && !hasPrefix(importPath, servicePrefix) {
			add("cross-module imports are forbidden")
		}
		if !hasRule {
			continue
		}
		if rule.forbidAdapters && strings.Contains(importPath, "/adapters/") {
			add(layer + " must not import adapters")
		}
		if rule.forbidInternal && hasPrefix(importPath, modulePath+"/internal") {
			add(layer + " must not import runtime infrastructure")
		}
		if !isStdlib(importPath) && !isAllowed(importPath, expand(rule.allowed, servicePrefix)) {
			add(layer + " import is outside explicit allowlist")
		}
	}
	return found
}

func expand(prefixes []string, servicePrefix string) []string {
	out := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		out = append(out, strings.ReplaceAll(p, "{service}", servicePrefix))
	}
	return out
}

func hasPrefix(path string, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func isAllowed(importPath string, allowedPrefixes []string) bool {
	for _, p := range allowedPrefixes {
		if hasPrefix(importPath, p) {
			return true
		}
	}
	return false
}

func isStdlib(importPath string) bool {
	if hasPrefix(importPath, modulePath) {
		return false
	}
	first, _, _ := strings.Cut(importPath, "/")
	return !strings.Contains(first, ".")
}

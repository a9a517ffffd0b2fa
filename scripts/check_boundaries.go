package main

import (
	"flag"
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const modulePath = "rutanagenda"

// layerRule lists what a layer of a service may import besides the standard
// library. Own entries are layer names inside the same service.
type layerRule struct {
	Own        []string
	ThirdParty []string
	AnyOwn     bool
}

var rules = map[string]layerRule{
	"domain": {
		Own: []string{"domain"},
	},
	"ports": {
		Own: []string{"domain"},
	},
	"transport": {},
	"application": {
		Own:        []string{"application", "domain", "ports"},
		ThirdParty: []string{"golang.org/x/sync/errgroup"},
	},
	"adapters": {
		Own: []string{"adapters", "application", "domain", "ports", "transport"},
		ThirdParty: []string{
			"github.com/go-playground/validator/v10",
			"github.com/google/uuid",
			"github.com/jackc/pgx/v5",
			"golang.org/x/crypto/bcrypt",
			"gorm.io/gorm",
		},
	},
	"module.go": {
		AnyOwn: true,
	},
	"doc.go": {},
}

type violation struct {
	File   string
	Line   int
	Import string
	Rule   string
}

func main() {
	root := flag.String("root", "contexts", "directory holding the bounded contexts")
	flag.Parse()

	violations, err := collectViolations(*root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "walk %s: %v\n", *root, err)
		os.Exit(2)
	}
	if len(violations) == 0 {
		fmt.Println("boundary checks passed")
		return
	}

	sort.Slice(violations, func(i, j int) bool {
		if violations[i].File != violations[j].File {
			return violations[i].File < violations[j].File
		}
		if violations[i].Line != violations[j].Line {
			return violations[i].Line < violations[j].Line
		}
		return violations[i].Import < violations[j].Import
	})

	fmt.Println("boundary violations found:")
	for _, v := range violations {
		fmt.Printf("- %s:%d imports %q (%s)\n", v.File, v.Line, v.Import, v.Rule)
	}
	os.Exit(1)
}

func collectViolations(root string) ([]violation, error) {
	var violations []violation

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		// <area>/<service>/<layer>/...
		parts := strings.Split(filepath.ToSlash(rel), "/")
		if len(parts) < 3 {
			return nil
		}
		service := "contexts/" + parts[0] + "/" + parts[1]
		layer := parts[2]

		violations = append(violations, checkFile(path, service, layer)...)
		return nil
	})
	return violations, err
}

func checkFile(path string, service string, layer string) []violation {
	file := filepath.ToSlash(path)
	rule, known := rules[layer]
	if !known {
		return []violation{{File: file, Line: 1, Rule: fmt.Sprintf("unknown layer %q", layer)}}
	}

	fset := token.NewFileSet()
	parsed, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
	if err != nil {
		return []violation{{File: file, Line: 1, Rule: "file must parse"}}
	}

	servicePrefix := modulePath + "/" + service
	var violations []violation
	for _, imp := range parsed.Imports {
		importPath := strings.Trim(imp.Path.Value, "\"")
		if reason := checkImport(rule, layer, servicePrefix, importPath); reason != "" {
			violations = append(violations, violation{
				File:   file,
				Line:   fset.Position(imp.Pos()).Line,
				Import: importPath,
				Rule:   reason,
			})
		}
	}
	return violations
}

func checkImport(rule layerRule, layer string, servicePrefix string, importPath string) string {
	switch {
	case isStdlib(importPath):
		return ""
	case hasPrefix(importPath, modulePath+"/internal"), hasPrefix(importPath, modulePath+"/cmd"):
		return "contexts must not import runtime infrastructure"
	case hasPrefix(importPath, modulePath+"/contexts") && !hasPrefix(importPath, servicePrefix):
		return "cross-service imports go through internal/app"
	case hasPrefix(importPath, servicePrefix):
		if rule.AnyOwn {
			return ""
		}
		target := strings.SplitN(strings.TrimPrefix(importPath, servicePrefix+"/"), "/", 2)[0]
		for _, own := range rule.Own {
			if target == own {
				return ""
			}
		}
		return fmt.Sprintf("%s must not import %s", layer, target)
	case hasPrefix(importPath, modulePath):
		return "unknown module package"
	}

	for _, allowed := range rule.ThirdParty {
		if hasPrefix(importPath, allowed) {
			return ""
		}
	}
	return fmt.Sprintf("third-party import not allowed in %s", layer)
}

func hasPrefix(path string, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func isStdlib(importPath string) bool {
	first, _, _ := strings.Cut(importPath, "/")
	return first != modulePath && !strings.Contains(first, ".")
}

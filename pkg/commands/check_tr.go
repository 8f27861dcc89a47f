package commands

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"

	"github.com/granempresa/erp-portal/pkg/application"
)

type trUsage struct {
	Key  string
	File string
	Line int
}

type missingKey struct {
	Locale string
	Key    string
	Source string
}

// CheckTrKeys reports keys defined in one supported locale but missing in another.
func CheckTrKeys(app application.Application, logger *logrus.Logger) error {
	messages := app.Bundle().Messages()
	locales := app.GetSupportedLanguages()

	tags := make(map[string]language.Tag, len(locales))
	keys := map[string]string{}
	for _, code := range locales {
		tag, err := language.Parse(code)
		if err != nil {
			return fmt.Errorf("invalid supported language %q: %w", code, err)
		}
		if messages[tag] == nil {
			return fmt.Errorf("supported language %q has no translations", code)
		}
		tags[code] = tag
		for key := range messages[tag] {
			if _, ok := keys[key]; !ok {
				keys[key] = code
			}
		}
	}

	var missing []missingKey
	for key, definedIn := range keys {
		for code, tag := range tags {
			if messages[tag][key] == nil {
				missing = append(missing, missingKey{Locale: code, Key: key, Source: definedIn})
			}
		}
	}
	return report(logger, missing, len(keys))
}

// CheckTrUsage parses the Go files under root and verifies every literal
// translation key they use exists in all supported locales.
func CheckTrUsage(app application.Application, root string, logger *logrus.Logger) error {
	usages, err := collectTrUsages(root)
	if err != nil {
		return err
	}
	if len(usages) == 0 {
		return fmt.Errorf("no translation usages found under %s", root)
	}

	messages := app.Bundle().Messages()
	seen := make(map[string]bool)
	var missing []missingKey
	for _, u := range usages {
		if u.Key == "" || seen[u.Key] {
			continue
		}
		seen[u.Key] = true
		for _, code := range app.GetSupportedLanguages() {
			if messages[language.Make(code)][u.Key] == nil {
				missing = append(missing, missingKey{
					Locale: code,
					Key:    u.Key,
					Source: fmt.Sprintf("%s:%d", u.File, u.Line),
				})
			}
		}
	}
	return report(logger, missing, len(seen))
}

func report(logger *logrus.Logger, missing []missingKey, total int) error {
	slices.SortFunc(missing, func(a, b missingKey) int {
		return strings.Compare(a.Key+a.Locale, b.Key+b.Locale)
	})
	for _, m := range missing {
		logger.WithFields(logrus.Fields{
			"locale": m.Locale,
			"key":    m.Key,
			"source": m.Source,
		}).Error("translation key missing")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%d translation keys are missing", len(missing))
	}
	logger.WithField("unique_keys", total).Info("all translation keys are present")
	return nil
}

func collectTrUsages(root string) ([]trUsage, error) {
	var usages []trUsage
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			name := d.Name()
			if rel != "." && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "vendor") {
				return fs.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(rel, ".go") || strings.HasSuffix(rel, "_test.go") {
			return nil
		}
		fileUsages, err := collectTrUsagesFromGoFile(path, rel)
		if err != nil {
			return err
		}
		usages = append(usages, fileUsages...)
		return nil
	})
	return usages, err
}

// collectTrUsagesFromGoFile finds intl.T keys, serrors.NewError locale keys
// and the Name of navigation items.
func collectTrUsagesFromGoFile(absPath, relPath string) ([]trUsage, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, absPath, nil, 0)
	if err != nil {
		return nil, err
	}

	var usages []trUsage
	add := func(expr ast.Expr) {
		if key, ok := stringLiteral(expr); ok && key != "" {
			usages = append(usages, trUsage{Key: key, File: relPath, Line: fset.Position(expr.Pos()).Line})
		}
	}
	ast.Inspect(file, func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.CallExpr:
			selector, ok := node.Fun.(*ast.SelectorExpr)
			if !ok {
				return true
			}
			pkg, ok := selector.X.(*ast.Ident)
			if !ok {
				return true
			}
			switch {
			case pkg.Name == "intl" && selector.Sel.Name == "T" && len(node.Args) >= 2:
				add(node.Args[1])
			case pkg.Name == "serrors" && selector.Sel.Name == "NewError" && len(node.Args) == 3:
				add(node.Args[2])
			}
		case *ast.CompositeLit:
			if !isNavigationItem(node.Type) {
				return true
			}
			for _, elt := range node.Elts {
				kv, ok := elt.(*ast.KeyValueExpr)
				if !ok {
					continue
				}
				if ident, ok := kv.Key.(*ast.Ident); ok && ident.Name == "Name" {
					add(kv.Value)
				}
			}
		}
		return true
	})
	return usages, nil
}

func isNavigationItem(expr ast.Expr) bool {
	switch t := expr.(type) {
	case *ast.SelectorExpr:
		return t.Sel.Name == "NavigationItem"
	case *ast.Ident:
		return t.Name == "NavigationItem"
	}
	return false
}

func stringLiteral(expr ast.Expr) (string, bool) {
	lit, ok := expr.(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", false
	}
	unquoted, err := strconv.Unquote(lit.Value)
	if err != nil {
		return "", false
	}
	return unquoted, true
}

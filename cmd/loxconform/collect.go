package main

import (
	"os"
	"path/filepath"
	"sort"
)

// collectCases reads every *.lox file directly inside dir (no nested test
// suites — the fixture set is small and flat, unlike cmd.golox's package
// tests), mirroring the teacher's flat "Top Level" suite collection.
func collectCases(dir string) ([]*TestCase, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var cases []*TestCase
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".lox" {
			continue
		}
		src, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		cases = append(cases, &TestCase{Name: e.Name(), Source: string(src)})
	}

	sort.Slice(cases, func(i, j int) bool { return cases[i].Name < cases[j].Name })
	return cases, nil
}

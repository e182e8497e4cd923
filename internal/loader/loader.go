// Package loader reads newline-delimited credential and proxy lists.
package loader

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// ReadLines returns the trimmed, non-blank lines of path.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return out, nil
}

// FileLoader reads tokens and proxies from two text files.
type FileLoader struct {
	TokensPath  string
	ProxiesPath string
}

func (l FileLoader) LoadTokens(_ context.Context) ([]string, error) {
	return ReadLines(l.TokensPath)
}

func (l FileLoader) LoadProxies(_ context.Context) ([]string, error) {
	return ReadLines(l.ProxiesPath)
}

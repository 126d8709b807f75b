// Package schema holds the dataset description handed to the question to
// query stage. The description is read once at startup and never refreshed.
package schema

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

var ErrEmptySchema = errors.New("schema description is empty")

// Provider produces the textual description of the dataset structure.
type Provider interface {
	DescribeSchema(ctx context.Context) (string, error)
}

// Description is the cached schema text. The zero value is empty.
type Description struct {
	text string
}

func (d Description) String() string {
	return d.text
}

func (d Description) IsZero() bool {
	return d.text == ""
}

// Load calls provider exactly once.
func Load(ctx context.Context, provider Provider) (Description, error) {
	if provider == nil {
		return Description{}, fmt.Errorf("schema provider is required")
	}
	text, err := provider.DescribeSchema(ctx)
	if err != nil {
		return Description{}, fmt.Errorf("describe schema: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return Description{}, ErrEmptySchema
	}
	return Description{text: text}, nil
}

// Static returns a fixed description.
type Static string

func (s Static) DescribeSchema(context.Context) (string, error) {
	return string(s), nil
}

// FileProvider reads a hand-written description from disk.
type FileProvider struct {
	Path string
}

func (p FileProvider) DescribeSchema(context.Context) (string, error) {
	if strings.TrimSpace(p.Path) == "" {
		return "", fmt.Errorf("schema file path is required")
	}
	body, err := os.ReadFile(p.Path)
	if err != nil {
		return "", fmt.Errorf("read schema file: %w", err)
	}
	return string(body), nil
}

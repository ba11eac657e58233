package staticcatalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tilefarm/internal/domain/farm"
)

const DefaultFile = "crops.json"

var ErrInvalidCatalogPath = errors.New("invalid catalog filepath")

// Provider reads the crop table from a file under Root.
type Provider struct {
	Root string
	File string
}

func (p Provider) Raw(_ context.Context) ([]byte, error) {
	name := p.File
	if strings.TrimSpace(name) == "" {
		name = DefaultFile
	}
	path, err := secureJoin(p.Root, name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read crop catalog: %w", err)
	}
	return data, nil
}

func (p Provider) Catalog(ctx context.Context) (farm.Catalog, error) {
	data, err := p.Raw(ctx)
	if err != nil {
		return nil, err
	}
	return farm.ParseCatalog(data)
}

func secureJoin(root, rel string) (string, error) {
	rel = strings.TrimSpace(rel)
	if rel == "" || filepath.IsAbs(rel) {
		return "", ErrInvalidCatalogPath
	}
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	target := filepath.Clean(filepath.Join(rootAbs, rel))
	prefix := rootAbs + string(filepath.Separator)
	if target != rootAbs && !strings.HasPrefix(target, prefix) {
		return "", ErrInvalidCatalogPath
	}
	return target, nil
}

package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mamadbah2/birdo/internal/domain/models"
	"github.com/mamadbah2/birdo/internal/lineage"
)

// export is the JSON dump of one breeder's registry.
type export struct {
	Profile models.Breeder `json:"profile"`
	Birds   []models.Bird  `json:"birds"`
}

// readExport accepts either an export object or a bare array of birds.
func readExport(path string) (export, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return export{}, fmt.Errorf("read export: %w", err)
	}

	var ex export
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &ex.Birds)
	} else {
		err = json.Unmarshal(data, &ex)
	}
	if err != nil {
		return export{}, fmt.Errorf("decode export %s: %v: %w", path, err, models.ErrMalformedInput)
	}
	return ex, nil
}

// find returns the bird whose id or ring number equals key.
func (ex export) find(key string) (models.Bird, error) {
	key = strings.TrimSpace(key)
	for _, b := range ex.Birds {
		if b.ID == key || strings.EqualFold(b.RingNumber, key) {
			return b, nil
		}
	}
	return models.Bird{}, fmt.Errorf("bird %q: %w", key, models.ErrNotFound)
}

func (ex export) tree(key string) (lineage.Tree, error) {
	subject, err := ex.find(key)
	if err != nil {
		return lineage.Tree{}, err
	}
	reg, err := lineage.NewRegistry(ex.Birds)
	if err != nil {
		return lineage.Tree{}, err
	}
	return lineage.Build(subject, reg)
}

package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed dataset.yaml
var defaultDataset []byte

// Dataset is a complete, validated catalog.
type Dataset struct {
	Categories    []Category
	SubCategories []SubCategory
}

type rawDataset struct {
	Categories []struct {
		ID   string `yaml:"id"`
		Name string `yaml:"name"`
	} `yaml:"categories"`
	SubCategories []struct {
		ID         string `yaml:"id"`
		CategoryID string `yaml:"category_id"`
		Name       string `yaml:"name"`
	} `yaml:"subcategories"`
}

// LoadDataset decodes a YAML dataset and validates every entry.
// Duplicate ids and subcategories pointing at unknown categories are rejected.
func LoadDataset(r io.Reader) (Dataset, error) {
	var raw rawDataset
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return Dataset{}, errors.Join(ErrInvalidDataset, err)
	}

	var ds Dataset
	seen := make(map[string]bool)
	for _, c := range raw.Categories {
		cat, err := NewCategory(c.ID, c.Name)
		if err != nil {
			return Dataset{}, errors.Join(ErrInvalidDataset, err)
		}
		if seen[c.ID] {
			return Dataset{}, fmt.Errorf("%w: duplicate category %q", ErrInvalidDataset, c.ID)
		}
		seen[c.ID] = true
		ds.Categories = append(ds.Categories, cat)
	}

	subSeen := make(map[string]bool)
	for _, s := range raw.SubCategories {
		sub, err := NewSubCategory(s.ID, s.CategoryID, s.Name)
		if err != nil {
			return Dataset{}, errors.Join(ErrInvalidDataset, err)
		}
		if !seen[s.CategoryID] {
			return Dataset{}, fmt.Errorf("%w: subcategory %q references unknown category %q",
				ErrInvalidDataset, s.ID, s.CategoryID)
		}
		if subSeen[s.ID] {
			return Dataset{}, fmt.Errorf("%w: duplicate subcategory %q", ErrInvalidDataset, s.ID)
		}
		subSeen[s.ID] = true
		ds.SubCategories = append(ds.SubCategories, sub)
	}

	return ds, nil
}

// DefaultDataset returns the built-in catalog of 4 categories and 13 subcategories.
func DefaultDataset() Dataset {
	ds, err := LoadDataset(bytes.NewReader(defaultDataset))
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded dataset is invalid: %v", err))
	}
	return ds
}

// Clone returns a deep copy of ds.
func (ds Dataset) Clone() Dataset {
	return Dataset{
		Categories:    slices.Clone(ds.Categories),
		SubCategories: slices.Clone(ds.SubCategories),
	}
}

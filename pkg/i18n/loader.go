package i18n

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFS reads every *.yaml and *.yml file in the root of fsys.
// Each file holds one or more top-level language codes mapping to nested
// translation trees; files are merged in directory order.
func LoadFS(fsys fs.FS) (map[string]map[string]any, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, errors.Join(ErrFailedToReadFile, err)
	}

	result := make(map[string]map[string]any)
	for _, e := range entries {
		ext := strings.ToLower(path.Ext(e.Name()))
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}

		content, err := fs.ReadFile(fsys, e.Name())
		if err != nil {
			return nil, errors.Join(ErrFailedToReadFile, fmt.Errorf("%s: %w", e.Name(), err))
		}

		parsed, err := ParseYAML(content)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
		for lang, tree := range parsed {
			if result[lang] == nil {
				result[lang] = make(map[string]any)
			}
			for k, v := range tree {
				result[lang][k] = v
			}
		}
	}

	if len(result) == 0 {
		return nil, ErrNoTranslations
	}
	return result, nil
}

// ParseYAML parses a document of the form {lang: {key: value | {nested...}}}.
func ParseYAML(content []byte) (map[string]map[string]any, error) {
	var data map[string]any
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, errors.Join(ErrFailedToParseYAML, err)
	}

	result := make(map[string]map[string]any, len(data))
	for lang, val := range data {
		tree, ok := val.(map[string]any)
		if !ok {
			return nil, errors.Join(ErrFailedToParseYAML,
				fmt.Errorf("language %q: expected map, got %T", lang, val))
		}
		result[strings.ToLower(lang)] = tree
	}
	return result, nil
}

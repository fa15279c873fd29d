package lessons

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/DeadlyParkour777/cpp-simulator/internal/types"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

var ErrModuleNotFound = errors.New("module not found")

// Catalog is read-only after Load and safe for concurrent use.
type Catalog struct {
	order   []string
	modules map[string]types.ModuleDetail
}

// Load parses the embedded lesson catalog.
func Load() (*Catalog, error) {
	return Parse(catalogYAML)
}

func Parse(data []byte) (*Catalog, error) {
	var doc struct {
		Modules []types.ModuleDetail `yaml:"modules"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse lesson catalog: %w", err)
	}

	c := &Catalog{modules: make(map[string]types.ModuleDetail, len(doc.Modules))}
	for _, m := range doc.Modules {
		if m.ID == "" {
			return nil, errors.New("lesson catalog contains a module without id")
		}
		if _, dup := c.modules[m.ID]; dup {
			return nil, fmt.Errorf("lesson catalog contains duplicate module %q", m.ID)
		}
		for i := range m.Examples {
			m.Examples[i].Code = strings.TrimRight(m.Examples[i].Code, "\n")
		}
		c.order = append(c.order, m.ID)
		c.modules[m.ID] = m
	}
	return c, nil
}

func (c *Catalog) List() []types.Module {
	list := make([]types.Module, 0, len(c.order))
	for _, id := range c.order {
		list = append(list, c.modules[id].Module)
	}
	return list
}

func (c *Catalog) Get(id string) (*types.ModuleDetail, error) {
	m, ok := c.modules[id]
	if !ok {
		return nil, ErrModuleNotFound
	}
	return &m, nil
}

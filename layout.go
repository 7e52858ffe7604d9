package guichet

import (
	"guichet/util"

	"github.com/pkg/errors"

	nt "guichet/entity"
)

// Layout declares the grids the console offers: columns, preset query
// fragments, and default sorts, all supplied by the embedding page rather
// than hard-coded per entity.
type Layout struct {
	Grids []GridLayout `yaml:"grids"`
}

// GridLayout is the layout for one grid type.
type GridLayout struct {
	Kind        nt.Kind     `yaml:"kind"`
	Preset      string      `yaml:"preset,omitempty"`
	DefaultSort SortLayout  `yaml:"defaultSort,omitempty"`
	Columns     []nt.Column `yaml:"columns"`
}

// SortLayout is the yaml shape of a default sort.
type SortLayout struct {
	Field string `yaml:"field"`
	Desc  bool   `yaml:"desc,omitempty"`
}

// Sort converts to the entity sort directive.
func (sl SortLayout) Sort() nt.Sort {
	return nt.Sort{Field: sl.Field, Desc: sl.Desc}
}

// LoadLayout reads the layout file.
func LoadLayout(path string) (layout *Layout, err error) {

	layout = &Layout{}
	err = util.LoadConfig(layout, path)
	if err != nil {
		return
	}

	if len(layout.Grids) == 0 {
		err = errors.Errorf("layout %s declares no grids", path)
	}
	return
}

// GridFor finds the layout for a grid type.
func (layout *Layout) GridFor(kind nt.Kind) (gl GridLayout, err error) {

	for _, gl = range layout.Grids {
		if gl.Kind == kind {
			return
		}
	}

	err = errors.Errorf("no layout for grid type %s", kind)
	return
}

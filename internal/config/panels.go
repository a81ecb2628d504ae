package config

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed panels.yaml
var defaultPanelsYAML []byte

// PanelInfo describes one dashboard chart panel.
type PanelInfo struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	YAxisTitle  string `yaml:"y_axis_title"`
}

// PanelLayout is the dashboard's chart configuration: which browsers are
// charted, which WPT channels are offered as tabs, and the panel list.
type PanelLayout struct {
	Browsers       []string    `yaml:"browsers"`
	WPTChannels    []string    `yaml:"wpt_channels"`
	BaselineLevels []string    `yaml:"baseline_levels"`
	Panels         []PanelInfo `yaml:"panels"`
}

// Panel returns the layout entry with the given id.
func (l PanelLayout) Panel(id string) (PanelInfo, bool) {
	for _, p := range l.Panels {
		if p.ID == id {
			return p, true
		}
	}
	return PanelInfo{}, false
}

// ParsePanelLayout decodes and validates a panel layout document.
func ParsePanelLayout(data []byte) (PanelLayout, error) {
	var layout PanelLayout
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return PanelLayout{}, fmt.Errorf("parse panel layout: %w", err)
	}
	if len(layout.Browsers) == 0 {
		return PanelLayout{}, errors.New("panel layout: no browsers configured")
	}
	if len(layout.Panels) == 0 {
		return PanelLayout{}, errors.New("panel layout: no panels configured")
	}
	for _, p := range layout.Panels {
		if p.ID == "" {
			return PanelLayout{}, errors.New("panel layout: panel without id")
		}
	}
	return layout, nil
}

// DefaultPanelLayout returns the embedded panel layout.
func DefaultPanelLayout() (PanelLayout, error) {
	return ParsePanelLayout(defaultPanelsYAML)
}

package ui

import "fmt"

// PanelTabs tracks which side-panel tab is active. The allowed set is
// fixed at construction and SetActive rejects anything outside it.
type PanelTabs struct {
	allowed []string
	active  string
}

// NewPanelTabs builds a tab strip; the first tab starts active.
func NewPanelTabs(allowed ...string) (*PanelTabs, error) {
	if len(allowed) == 0 {
		return nil, fmt.Errorf("panel tabs need at least one tab")
	}
	return &PanelTabs{allowed: append([]string(nil), allowed...), active: allowed[0]}, nil
}

// Tabs returns the allowed tab ids in order.
func (p *PanelTabs) Tabs() []string {
	return append([]string(nil), p.allowed...)
}

// Active returns the currently active tab id.
func (p *PanelTabs) Active() string { return p.active }

// SetActive switches tabs; unknown ids are rejected and the active tab
// is left unchanged.
func (p *PanelTabs) SetActive(id string) error {
	for _, tab := range p.allowed {
		if tab == id {
			p.active = id
			return nil
		}
	}
	return fmt.Errorf("unknown tab: %s", id)
}

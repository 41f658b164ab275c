package drill

import (
	"github.com/verte-zerg/aimdrill/internal/rig"
	"github.com/verte-zerg/aimdrill/internal/session"
	"github.com/verte-zerg/aimdrill/internal/shoot"
)

// Panels holds the latest text of every HUD panel.
type Panels struct {
	text map[session.Panel]string
}

func newPanels() *Panels {
	return &Panels{text: map[session.Panel]string{}}
}

// Display implements session.HUD.
func (p *Panels) Display(panel session.Panel, text string) {
	p.text[panel] = text
}

// Text returns the panel's current text.
func (p *Panels) Text(panel session.Panel) string {
	return p.text[panel]
}

// toggles routes component switches to the rig and the weapon and remembers
// the rest for the renderer.
type toggles struct {
	gun     *shoot.Controller
	look    *rig.Look
	mover   *rig.Mover
	visible map[session.Component]bool
}

func (t *toggles) SetEnabled(c session.Component, enabled bool) {
	switch c {
	case session.ComponentShooter:
		t.gun.SetEnabled(enabled)
	case session.ComponentLook:
		t.look.SetEnabled(enabled)
		t.mover.SetEnabled(enabled)
	}
	t.visible[c] = enabled
}

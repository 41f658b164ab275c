package drill

import (
	"github.com/verte-zerg/aimdrill/internal/arena"
	"github.com/verte-zerg/aimdrill/internal/geom"
	"github.com/verte-zerg/aimdrill/internal/session"
	"github.com/verte-zerg/aimdrill/internal/shoot"
)

// TargetView is one visible target.
type TargetView struct {
	Center   geom.Vec3
	Radius   float64
	Kind     arena.Kind
	Flashing bool
	// Progress is the recoil target's share of hits taken, 0 for flick targets.
	Progress float64
}

// View is everything a renderer needs for one frame.
type View struct {
	Snapshot session.Snapshot
	Panels   map[session.Panel]string
	Visible  map[session.Component]bool

	Eye     geom.Vec3
	Forward geom.Vec3
	Right   geom.Vec3
	Up      geom.Vec3
	Targets []TargetView

	Tracer    shoot.Tracer
	HasTracer bool
	KickBack  float64
	KickUp    float64
	Bullets   int
	Magazine  int
	Reloading bool
}

// View captures the current frame.
func (d *Drill) View() View {
	v := View{
		Snapshot:  d.session.Snapshot(),
		Panels:    make(map[session.Panel]string, len(d.panels.text)),
		Visible:   make(map[session.Component]bool, len(d.toggles.visible)),
		Eye:       d.mover.Position(),
		Forward:   d.look.Forward(),
		Right:     d.look.Right(),
		Up:        d.look.Up(),
		Bullets:   d.gun.Bullets(),
		Magazine:  d.gun.Magazine(),
		Reloading: d.gun.Reloading(),
	}
	for k, text := range d.panels.text {
		v.Panels[k] = text
	}
	for k, on := range d.toggles.visible {
		v.Visible[k] = on
	}
	v.Tracer, v.HasTracer = d.gun.Tracer()
	v.KickBack, v.KickUp = d.kick.Offset()

	if d.flick.Active() {
		v.Targets = append(v.Targets, TargetView{
			Center:   d.flick.Center(),
			Radius:   TargetRadius,
			Kind:     arena.KindFlick,
			Flashing: d.flick.Flashing(),
		})
	}
	for _, r := range d.recoil {
		if !r.Active() {
			continue
		}
		v.Targets = append(v.Targets, TargetView{
			Center:   r.Center(),
			Radius:   TargetRadius,
			Kind:     arena.KindRecoil,
			Progress: r.Progress(),
		})
	}
	return v
}

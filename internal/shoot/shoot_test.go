package shoot

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/aimdrill/internal/arena"
	"github.com/verte-zerg/aimdrill/internal/geom"
	"github.com/verte-zerg/aimdrill/internal/session"
	"github.com/verte-zerg/aimdrill/internal/target"
)

type recordingTracker struct {
	events []string
	ammo   []string
	sample struct {
		point, center geom.Vec3
		radius        float64
	}
}

func (r *recordingTracker) RegisterShot()       { r.events = append(r.events, "shot") }
func (r *recordingTracker) RegisterRecoilMiss() { r.events = append(r.events, "miss") }
func (r *recordingTracker) RegisterHit(isHit bool) {
	if isHit {
		r.events = append(r.events, "hit")
		return
	}
	r.events = append(r.events, "nohit")
}
func (r *recordingTracker) RegisterRecoilSample(p, c geom.Vec3, radius float64) {
	r.events = append(r.events, "sample")
	r.sample.point, r.sample.center, r.sample.radius = p, c, radius
}
func (r *recordingTracker) RegisterReloadStarted()  { r.events = append(r.events, "reload-start") }
func (r *recordingTracker) RegisterReloadFinished() { r.events = append(r.events, "reload-end") }
func (r *recordingTracker) UpdateAmmoDisplay(_, _ int, hint bool) {
	s := "ammo"
	if hint {
		s = "ammo-hint"
	}
	r.ammo = append(r.ammo, s)
}

type fixedAim struct {
	forward geom.Vec3
	recoils int
}

func (a *fixedAim) Forward() geom.Vec3 { return a.forward }
func (a *fixedAim) AddRecoil(float64, float64) {
	a.recoils++
}

type countingKicker struct{ kicks int }

func (k *countingKicker) Kick() { k.kicks++ }

type midRand struct{}

func (midRand) Uniform(min, max float64) float64 { return (min + max) / 2 }

type rig struct {
	world   *arena.World
	tracker *recordingTracker
	aim     *fixedAim
	kicker  *countingKicker
	gun     *Controller
}

func newRig(t *testing.T, settings Settings) *rig {
	t.Helper()
	r := &rig{
		world:   arena.NewWorld(),
		tracker: &recordingTracker{},
		aim:     &fixedAim{forward: geom.V(0, 0, 1)},
		kicker:  &countingKicker{},
	}
	r.gun = New(settings, Options{
		World:   r.world,
		Tracker: r.tracker,
		Aim:     r.aim,
		Origin:  func() geom.Vec3 { return geom.V(0, 1.5, 0) },
		Kicker:  r.kicker,
		Rand:    midRand{},
		Log:     zerolog.Nop(),
	})
	r.gun.SetEnabled(true)
	return r
}

func (r *rig) events() []string {
	out := r.tracker.events
	r.tracker.events = nil
	return out
}

func equalEvents(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFireIntoEmptyRangeIsMiss(t *testing.T) {
	r := newRig(t, DefaultSettings())
	if !r.gun.TryFire() {
		t.Fatalf("expected shot")
	}
	if got := r.events(); !equalEvents(got, []string{"shot", "miss"}) {
		t.Fatalf("unexpected events %v", got)
	}
	tr, ok := r.gun.Tracer()
	if !ok || tr.To.Z != 100 {
		t.Fatalf("expected full-range tracer, got %+v %v", tr, ok)
	}
	if r.kicker.kicks != 1 || r.aim.recoils != 1 {
		t.Fatalf("expected kick and view recoil")
	}
}

func TestFireHitsScenery(t *testing.T) {
	r := newRig(t, DefaultSettings())
	r.world.SpawnPlane(geom.V(0, 0, 20), geom.V(0, 0, -1))
	r.gun.TryFire()
	if got := r.events(); !equalEvents(got, []string{"shot", "nohit", "miss"}) {
		t.Fatalf("unexpected events %v", got)
	}
	tr, _ := r.gun.Tracer()
	if tr.To.Z != 20 {
		t.Fatalf("expected tracer to end on the wall, got %+v", tr.To)
	}
}

func TestFireHitsFlick(t *testing.T) {
	r := newRig(t, DefaultSettings())
	box := arena.Box{Center: geom.V(0, 1.5, 15)}
	flick := target.NewFlick(r.world, box, 0.5, midRand{}, zerolog.Nop())
	flick.SetActive(true)
	r.gun.AddFlick(flick)

	r.gun.TryFire()
	if got := r.events(); !equalEvents(got, []string{"shot", "hit"}) {
		t.Fatalf("unexpected events %v", got)
	}
	if !flick.Flashing() {
		t.Fatalf("expected flick to flash after hit")
	}
}

func TestFireHitsRecoil(t *testing.T) {
	r := newRig(t, DefaultSettings())
	rec := target.NewRecoil(r.world, 0.5, 0.15, zerolog.Nop())
	rec.Setup(nil, 2)
	rec.SpawnAt(geom.V(0.2, 1.5, 15))
	r.gun.AddRecoil(rec)

	r.gun.TryFire()
	if got := r.events(); !equalEvents(got, []string{"shot", "hit", "sample"}) {
		t.Fatalf("unexpected events %v", got)
	}
	if r.tracker.sample.center != geom.V(0.2, 1.5, 15) || r.tracker.sample.radius != 0.15 {
		t.Fatalf("unexpected sample %+v", r.tracker.sample)
	}
	if r.tracker.sample.point != geom.V(0, 1.5, 15) {
		t.Fatalf("expected sample on the target face, got %+v", r.tracker.sample.point)
	}
	if rec.Hits() != 1 {
		t.Fatalf("expected recoil target to count the hit")
	}
}

func TestFireInterval(t *testing.T) {
	r := newRig(t, DefaultSettings())
	r.gun.Tick(0.05, Input{Fire: true})
	r.gun.Tick(0.05, Input{Fire: true})
	if got := r.gun.Bullets(); got != 29 {
		t.Fatalf("expected 1 shot inside the interval, %d bullets left", got)
	}
	r.gun.Tick(0.06, Input{Fire: true})
	if got := r.gun.Bullets(); got != 28 {
		t.Fatalf("expected 2 shots, %d bullets left", got)
	}
}

func TestDisabledIgnoresInput(t *testing.T) {
	r := newRig(t, DefaultSettings())
	r.gun.SetEnabled(false)
	r.gun.Tick(1, Input{Fire: true, Reload: true})
	if r.gun.Bullets() != 30 || len(r.events()) != 0 {
		t.Fatalf("disabled weapon reacted to input")
	}
}

func TestReloadCycle(t *testing.T) {
	r := newRig(t, DefaultSettings())
	if r.gun.StartReload() {
		t.Fatalf("reload with a full magazine must be ignored")
	}
	r.gun.TryFire()
	r.events()

	r.gun.Tick(0.125, Input{Reload: true})
	if !r.gun.Reloading() {
		t.Fatalf("expected reload in progress")
	}
	if r.gun.StartReload() {
		t.Fatalf("second reload must be ignored")
	}
	if r.gun.TryFire() {
		t.Fatalf("must not fire while reloading")
	}
	r.gun.Tick(0.25, Input{})
	if r.gun.Reloading() || r.gun.Bullets() != 30 {
		t.Fatalf("expected refilled magazine, reloading=%v bullets=%d", r.gun.Reloading(), r.gun.Bullets())
	}
	if got := r.events(); !equalEvents(got, []string{"reload-start", "reload-end"}) {
		t.Fatalf("unexpected events %v", got)
	}
}

func TestResetMagazineCancelsReload(t *testing.T) {
	r := newRig(t, DefaultSettings())
	r.gun.TryFire()
	r.gun.StartReload()
	r.events()
	r.gun.ResetMagazine()
	if got := r.events(); !equalEvents(got, []string{"reload-end"}) {
		t.Fatalf("expected the cut reload to be closed, got %v", got)
	}
	r.gun.Tick(1, Input{})
	if r.gun.Reloading() || len(r.events()) != 0 {
		t.Fatalf("cancelled reload still finished")
	}
	if r.gun.Bullets() != r.gun.Magazine() {
		t.Fatalf("expected full magazine")
	}

	r.gun.ResetMagazine()
	if got := r.events(); len(got) != 0 {
		t.Fatalf("reset without a reload must not report one, got %v", got)
	}
}

func TestFacePointMeasuresOffAxisError(t *testing.T) {
	origin := geom.V(0, 1.6, 0)
	center := geom.V(1, 1.6, 10)
	dead := facePoint(origin, center.Sub(origin), center)
	if geom.Distance(dead, center) > 1e-9 {
		t.Fatalf("expected zero error for a dead-center shot, got %v", geom.Distance(dead, center))
	}
	off := facePoint(origin, geom.V(0, 0, 2), geom.V(0.1, 1.6, 10))
	if geom.Distance(off, geom.V(0.1, 1.6, 10)) < 0.1-1e-9 || geom.Distance(off, geom.V(0.1, 1.6, 10)) > 0.1+1e-9 {
		t.Fatalf("expected 0.1 error, got %+v", off)
	}
}

type panelHUD map[session.Panel]string

func (h panelHUD) Display(p session.Panel, text string) { h[p] = text }

func TestEmptyMagazineShowsReloadHint(t *testing.T) {
	hud := panelHUD{}
	mgr := session.New(session.Settings{SessionDuration: 90}, session.Deps{HUD: hud})
	r := newRig(t, DefaultSettings())
	r.gun.SetTracker(mgr)
	mgr.SetMagazine(r.gun)
	mgr.Init()
	mgr.StartSession()

	for i := 0; i < 31; i++ {
		r.gun.Tick(0.125, Input{Fire: true})
	}
	if got := mgr.Snapshot().Counters.TotalShots; got != 30 {
		t.Fatalf("expected 30 shots, got %d", got)
	}
	if hud[session.PanelAmmo] != "Ammo: 0/30  Press R" {
		t.Fatalf("unexpected ammo panel %q", hud[session.PanelAmmo])
	}
	if got := r.tracker.ammo; len(got) != 0 {
		t.Fatalf("recording tracker should be detached, got %v", got)
	}
}

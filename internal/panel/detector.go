// Package panel detects overlay panels appearing and disappearing over the
// current screen, judged only at stable opacity endpoints.
package panel

import (
	"cmp"
	"slices"
	"strings"

	"github.com/mj1618/arena-access/internal/config"
	"github.com/mj1618/arena-access/internal/logging"
	"github.com/mj1618/arena-access/internal/model"
)

// Options tunes the detector's cadence and matching.
type Options struct {
	CheckInterval    int
	RescanMultiplier int
	VisibleThreshold float64
	HiddenThreshold  float64
	Patterns         []string
	PopupPatterns    []string
	CloneSuffix      string
}

// OptionsFrom converts the panel configuration section.
func OptionsFrom(c config.PanelConfig) Options {
	return Options{
		CheckInterval:    c.CheckIntervalFrames,
		RescanMultiplier: c.RescanMultiplier,
		VisibleThreshold: c.VisibleThreshold,
		HiddenThreshold:  c.HiddenThreshold,
		Patterns:         c.Patterns,
		PopupPatterns:    c.PopupPatterns,
		CloneSuffix:      c.CloneSuffix,
	}
}

// TrackedPanel is one candidate overlay followed across frames.
type TrackedPanel struct {
	ID        int64  `yaml:"id"         json:"id"`
	Name      string `yaml:"name"       json:"name"`
	Depth     int    `yaml:"depth"      json:"depth"`
	SortOrder int    `yaml:"sort_order" json:"sort_order"`
	HasAlpha  bool   `yaml:"has_alpha"  json:"has_alpha"`
	IsPopup   bool   `yaml:"popup"      json:"popup"`
	Visible   bool   `yaml:"visible"    json:"visible"`

	rawName  string
	appeared uint64
}

// Priority ranks concurrently visible panels; the highest is topmost.
func (p *TrackedPanel) Priority() int {
	prio := p.Depth*10 + p.SortOrder*100
	if p.IsPopup {
		prio += 1000
	}
	return prio
}

// Change reports the outcome of one CheckForChanges call.
type Change struct {
	HasChange   bool
	Appeared    string
	Disappeared string
	Topmost     *model.Object
}

// Detector tracks candidate panels by host identity.
type Detector struct {
	opts Options
	log  *logging.Logger

	frame     int
	seq       uint64
	panels    map[int64]*TrackedPanel
	topmostID int64
}

// New creates a Detector.
func New(opts Options, log *logging.Logger) *Detector {
	if opts.CheckInterval < 1 {
		opts.CheckInterval = 1
	}
	if opts.RescanMultiplier < 1 {
		opts.RescanMultiplier = 1
	}
	if log == nil {
		log = logging.NopLogger()
	}
	return &Detector{
		opts:   opts,
		log:    log.WithComponent("panel"),
		panels: make(map[int64]*TrackedPanel),
	}
}

// CheckForChanges is called every frame. Real work runs every CheckInterval
// frames; between ticks only the last topmost panel is re-resolved.
func (d *Detector) CheckForChanges(s *model.Scene) Change {
	d.frame++
	if d.frame%d.opts.CheckInterval != 0 {
		return Change{Topmost: d.resolveTopmost(s)}
	}

	if len(d.panels) == 0 || d.frame%(d.opts.CheckInterval*d.opts.RescanMultiplier) == 0 {
		d.rescan(s)
	}

	var appeared, disappeared []*TrackedPanel
	for _, id := range d.sortedIDs() {
		p := d.panels[id]
		o := s.Lookup(id)
		if o == nil || o.Name != p.rawName {
			// Destroyed, or the identity was recycled for another object.
			delete(d.panels, id)
			continue
		}

		alpha := d.effectiveOpacity(o)
		switch {
		case !p.Visible && o.ActiveInHierarchy() && alpha >= d.opts.VisibleThreshold:
			p.Visible = true
			d.seq++
			p.appeared = d.seq
			appeared = append(appeared, p)
		case p.Visible && alpha <= d.opts.HiddenThreshold:
			p.Visible = false
			disappeared = append(disappeared, p)
		}
	}

	change := Change{
		Appeared:    representative(appeared),
		Disappeared: representative(disappeared),
	}
	change.HasChange = change.Appeared != "" || change.Disappeared != ""

	d.topmostID = 0
	if top := d.topmost(); top != nil {
		d.topmostID = top.ID
	}
	change.Topmost = s.Lookup(d.topmostID)

	if change.HasChange {
		d.log.Debug("panel change",
			"appeared", change.Appeared,
			"disappeared", change.Disappeared,
			"topmost", d.topmostID)
	}
	return change
}

// Topmost returns the current topmost visible panel in s, or nil.
func (d *Detector) Topmost(s *model.Scene) *model.Object {
	return d.resolveTopmost(s)
}

// Tracked lists every tracked panel ordered by identity.
func (d *Detector) Tracked() []TrackedPanel {
	out := make([]TrackedPanel, 0, len(d.panels))
	for _, id := range d.sortedIDs() {
		out = append(out, *d.panels[id])
	}
	return out
}

// Reset forgets all panels and restarts the cadence.
func (d *Detector) Reset() {
	d.frame = 0
	d.topmostID = 0
	d.panels = make(map[int64]*TrackedPanel)
}

func (d *Detector) resolveTopmost(s *model.Scene) *model.Object {
	if d.topmostID == 0 {
		return nil
	}
	return s.Lookup(d.topmostID)
}

func (d *Detector) rescan(s *model.Scene) {
	s.Walk(func(o *model.Object) bool {
		if _, ok := d.panels[o.ID]; ok {
			return true
		}
		if !d.isCandidate(o) {
			return true
		}
		d.panels[o.ID] = &TrackedPanel{
			ID:        o.ID,
			Name:      strings.TrimSpace(strings.TrimSuffix(o.Name, d.opts.CloneSuffix)),
			Depth:     o.Depth(),
			SortOrder: o.CanvasSortOrder(),
			HasAlpha:  o.Alpha != nil,
			IsPopup:   containsAny(o.Name, d.opts.PopupPatterns),
			rawName:   o.Name,
		}
		return true
	})
}

func (d *Detector) isCandidate(o *model.Object) bool {
	if d.opts.CloneSuffix != "" && !strings.HasSuffix(o.Name, d.opts.CloneSuffix) {
		return false
	}
	if !containsAny(o.Name, d.opts.Patterns) {
		return false
	}
	return o.HasInteractiveDescendant()
}

// effectiveOpacity is the panel's own alpha (or 1/0 from its active state),
// clamped to 0 when any ancestor is faded out.
func (d *Detector) effectiveOpacity(o *model.Object) float64 {
	alpha := 0.0
	switch {
	case o.Alpha != nil:
		alpha = *o.Alpha
	case o.ActiveInHierarchy():
		alpha = 1.0
	}
	for cur := o.Parent(); cur != nil; cur = cur.Parent() {
		if cur.Alpha != nil && *cur.Alpha <= d.opts.HiddenThreshold {
			return 0
		}
	}
	return alpha
}

// topmost picks the visible panel with the highest priority. Ties go to the
// most recently appeared panel, then the higher identity.
func (d *Detector) topmost() *TrackedPanel {
	var best *TrackedPanel
	for _, p := range d.panels {
		if !p.Visible {
			continue
		}
		if best == nil || comparePanels(p, best) > 0 {
			best = p
		}
	}
	return best
}

func comparePanels(a, b *TrackedPanel) int {
	if c := cmp.Compare(a.Priority(), b.Priority()); c != 0 {
		return c
	}
	if c := cmp.Compare(a.appeared, b.appeared); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// representative names one panel out of several that changed in the same
// tick: popups first, then the deepest.
func representative(changed []*TrackedPanel) string {
	if len(changed) == 0 {
		return ""
	}
	best := slices.MaxFunc(changed, func(a, b *TrackedPanel) int {
		if a.IsPopup != b.IsPopup {
			if a.IsPopup {
				return 1
			}
			return -1
		}
		if c := cmp.Compare(a.Depth, b.Depth); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return best.Name
}

func (d *Detector) sortedIDs() []int64 {
	ids := make([]int64, 0, len(d.panels))
	for id := range d.panels {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if p != "" && strings.Contains(s, p) {
			return true
		}
	}
	return false
}

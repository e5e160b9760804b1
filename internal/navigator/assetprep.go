package navigator

import (
	"regexp"
	"strconv"

	"github.com/mj1618/arena-access/internal/model"
	"github.com/mj1618/arena-access/internal/platform"
	"github.com/mj1618/arena-access/internal/uitext"
)

const (
	assetPrepRoot     = "AssetPrep"
	assetPrepProgress = "ProgressText"
)

var percent = regexp.MustCompile(`(\d{1,3})\s*%`)

// AssetPrepScreen covers the asset-download screen shown before login. Its
// progress label is navigable and progress is announced in steps.
type AssetPrepScreen struct {
	text platform.TextExtractor
	step int

	rootID     int64
	lastBucket int
	complete   bool
}

// NewAssetPrepScreen creates an AssetPrepScreen announcing every step percent.
func NewAssetPrepScreen(text platform.TextExtractor, step int) *AssetPrepScreen {
	if step < 1 {
		step = 10
	}
	return &AssetPrepScreen{text: text, step: step, lastBucket: -1}
}

func (a *AssetPrepScreen) Name() string { return "assetprep" }

func (a *AssetPrepScreen) DetectScreen(s *model.Scene) bool {
	return a.find(s) != nil
}

func (a *AssetPrepScreen) DiscoverElements(s *model.Scene) []Element {
	root := a.find(s)
	if root == nil {
		return nil
	}
	var out []Element
	if p := root.FindDescendant(assetPrepProgress); p != nil && p.ActiveInHierarchy() {
		out = append(out, Element{Object: p, Label: uitext.Clean(p.Text)})
	}
	for _, c := range root.Children {
		c.Walk(func(o *model.Object) bool {
			if !o.ActiveSelf() {
				return false
			}
			if o.IsInteractive() {
				out = append(out, Element{Object: o, Label: a.text.GetText(o)})
				return false
			}
			return true
		})
	}
	return out
}

func (a *AssetPrepScreen) ValidateElements(s *model.Scene, elems []Element) bool {
	return sameObjects(elems, a.DiscoverElements(s))
}

// Progress returns the download percentage shown, or -1.
func (a *AssetPrepScreen) Progress(s *model.Scene) int {
	root := a.find(s)
	if root == nil {
		return -1
	}
	p := root.FindDescendant(assetPrepProgress)
	if p == nil {
		return -1
	}
	m := percent.FindStringSubmatch(p.Text)
	if m == nil {
		return -1
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return -1
	}
	return min(v, 100)
}

// Tick announces progress each time it crosses a step boundary, and once
// when the download completes.
func (a *AssetPrepScreen) Tick(s *model.Scene, ann platform.Announcer, strs platform.Strings) {
	root := a.find(s)
	if root == nil {
		return
	}
	if root.ID != a.rootID {
		a.rootID = root.ID
		a.lastBucket = -1
		a.complete = false
	}
	pct := a.Progress(s)
	if pct < 0 || a.complete {
		return
	}
	if pct >= 100 {
		a.complete = true
		ann.Announce(strs.Get("assetprep_complete"), platform.PriorityNormal)
		return
	}
	bucket := pct / a.step * a.step
	if bucket > a.lastBucket {
		a.lastBucket = bucket
		ann.Announce(strs.Format("assetprep_progress", bucket), platform.PriorityNormal)
	}
}

func (a *AssetPrepScreen) find(s *model.Scene) *model.Object {
	root := s.FindByName(assetPrepRoot)
	if root == nil || !root.ActiveInHierarchy() {
		return nil
	}
	return root
}

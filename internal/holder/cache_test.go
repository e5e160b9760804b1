package holder

import (
	"testing"

	"github.com/mj1618/arena-access/internal/model"
)

func TestCache_HitAfterFirstScan(t *testing.T) {
	s := model.NewScene("Duel",
		&model.Object{ID: 1, Name: "Root", Children: []*model.Object{
			{ID: 2, Name: "BattlefieldCardHolder"},
		}},
	)
	c := New()

	if got := c.Find(s, "Battlefield"); got == nil || got.ID != 2 {
		t.Fatalf("first Find = %v", got)
	}
	if got := c.Find(s, "Battlefield"); got == nil || got.ID != 2 {
		t.Fatalf("second Find = %v", got)
	}
	st := c.Stats()
	if st.Hits != 1 || st.Misses != 1 || st.Entries != 1 {
		t.Errorf("stats = %+v", st)
	}
}

func TestCache_RescansWhenStale(t *testing.T) {
	c := New()
	first := model.NewScene("Duel", &model.Object{ID: 10, Name: "StackCardHolder"})
	c.Find(first, "Stack")

	// The holder was destroyed and recreated with a new identity.
	second := model.NewScene("Duel", &model.Object{ID: 11, Name: "StackCardHolder"})
	got := c.Find(second, "Stack")
	if got == nil || got.ID != 11 {
		t.Fatalf("Find after recreate = %v, want id 11", got)
	}
	if c.Stats().Stale != 1 {
		t.Errorf("expected one stale eviction, got %+v", c.Stats())
	}
}

func TestCache_RescansWhenIdentityReused(t *testing.T) {
	c := New()
	first := model.NewScene("Duel", &model.Object{ID: 10, Name: "StackCardHolder"})
	c.Find(first, "Stack")

	// Identity 10 now belongs to an unrelated object.
	second := model.NewScene("Duel",
		&model.Object{ID: 10, Name: "Popup"},
		&model.Object{ID: 12, Name: "StackCardHolder"},
	)
	got := c.Find(second, "Stack")
	if got == nil || got.ID != 12 {
		t.Fatalf("Find after reuse = %v, want id 12", got)
	}
	if st := c.Stats(); st.Stale != 1 || st.Hits != 0 {
		t.Errorf("stats = %+v", st)
	}
}

func TestCache_MissesAreNotCached(t *testing.T) {
	c := New()
	empty := model.NewScene("Duel", &model.Object{ID: 1, Name: "Root"})
	if c.Find(empty, "Hand") != nil {
		t.Fatal("expected miss")
	}
	if c.Stats().Entries != 0 {
		t.Error("a miss must not create an entry")
	}

	later := model.NewScene("Duel", &model.Object{ID: 1, Name: "Root", Children: []*model.Object{
		{ID: 5, Name: "LocalHandCardHolder"},
	}})
	if got := c.Find(later, "Hand"); got == nil || got.ID != 5 {
		t.Errorf("expected hand to be found once it exists, got %v", got)
	}
}

func TestCache_Clear(t *testing.T) {
	c := New()
	s := model.NewScene("Duel", &model.Object{ID: 1, Name: "Holder"})
	c.Find(s, "Holder")
	c.Clear()
	if st := c.Stats(); st != (Stats{}) {
		t.Errorf("stats after Clear = %+v", st)
	}
	if c.Find(nil, "Holder") != nil {
		t.Error("nil scene should return nil")
	}
}

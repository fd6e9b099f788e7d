package kb_test

import (
	"testing"

	"github.com/okozlov/quill/internal/kb"
)

func TestBuildCategoryTreeNestsByParent(t *testing.T) {
	flat := []kb.Category{
		{ID: "3", Name: "TCP", ParentID: "1"},
		{ID: "1", Name: "Networking"},
		{ID: "2", Name: "Algorithms"},
		{ID: "4", Name: "Handshake", ParentID: "3"},
	}

	roots := kb.BuildCategoryTree(flat)

	if len(roots) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(roots))
	}
	if roots[0].ID != "1" || roots[1].ID != "2" {
		t.Fatalf("expected roots ordered by id, got %q then %q", roots[0].ID, roots[1].ID)
	}
	if len(roots[0].Children) != 1 || roots[0].Children[0].ID != "3" {
		t.Fatalf("expected category 3 under category 1, got %+v", roots[0].Children)
	}
	if len(roots[0].Children[0].Children) != 1 {
		t.Fatalf("expected category 4 under category 3")
	}
}

func TestBuildCategoryTreeOrdersLevelsByID(t *testing.T) {
	flat := []kb.Category{
		{ID: "1", Name: "Root"},
		{ID: "1c", Name: "C", ParentID: "1"},
		{ID: "1a", Name: "A", ParentID: "1"},
		{ID: "1b", Name: "B", ParentID: "1"},
	}

	roots := kb.BuildCategoryTree(flat)

	if len(roots) != 1 {
		t.Fatalf("expected a single root, got %d", len(roots))
	}
	got := make([]string, 0, 3)
	for _, c := range roots[0].Children {
		got = append(got, c.ID)
	}
	want := []string{"1a", "1b", "1c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected children %v, got %v", want, got)
		}
	}
}

func TestBuildCategoryTreeDanglingParentBecomesRoot(t *testing.T) {
	flat := []kb.Category{
		{ID: "9", Name: "Orphan", ParentID: "missing"},
	}

	roots := kb.BuildCategoryTree(flat)
	if len(roots) != 1 || roots[0].ID != "9" {
		t.Fatalf("expected dangling category to surface as root, got %+v", roots)
	}
}

func TestFlattenTreeReportsDepth(t *testing.T) {
	roots := kb.BuildCategoryTree([]kb.Category{
		{ID: "1"},
		{ID: "2", ParentID: "1"},
		{ID: "3", ParentID: "2"},
	})

	depths := map[string]int{}
	kb.FlattenTree(roots, func(c *kb.Category, depth int) {
		depths[c.ID] = depth
	})

	for id, want := range map[string]int{"1": 0, "2": 1, "3": 2} {
		if depths[id] != want {
			t.Errorf("category %s: expected depth %d, got %d", id, want, depths[id])
		}
	}
}

func TestToggleTag(t *testing.T) {
	tags := []kb.Tag{{ID: "t1", Name: "tcp"}}

	tags = kb.ToggleTag(tags, kb.Tag{ID: "t2", Name: "ip"})
	if len(tags) != 2 {
		t.Fatalf("expected tag added, got %+v", tags)
	}

	tags = kb.ToggleTag(tags, kb.Tag{ID: "t1", Name: "tcp"})
	if len(tags) != 1 || tags[0].ID != "t2" {
		t.Fatalf("expected tag t1 removed, got %+v", tags)
	}
}

func TestSameTagSetIgnoresOrder(t *testing.T) {
	a := []kb.Tag{{ID: "1"}, {ID: "2"}}
	b := []kb.Tag{{ID: "2"}, {ID: "1"}}

	if !kb.SameTagSet(a, b) {
		t.Fatal("expected equal sets regardless of order")
	}
	if kb.SameTagSet(a, []kb.Tag{{ID: "1"}}) {
		t.Fatal("expected different lengths to differ")
	}
	if kb.SameTagSet(a, []kb.Tag{{ID: "1"}, {ID: "3"}}) {
		t.Fatal("expected differing members to differ")
	}
}

func TestMatchesTagFilter(t *testing.T) {
	q := &kb.Question{Tags: []kb.Tag{{ID: "1", Name: "Networking"}}}

	cases := []struct {
		filter string
		want   bool
	}{
		{"", true},
		{"network", true},
		{"WORK", true},
		{"databases", false},
	}

	for _, tc := range cases {
		if got := q.MatchesTagFilter(tc.filter); got != tc.want {
			t.Errorf("filter %q: expected %v, got %v", tc.filter, tc.want, got)
		}
	}
}

func TestNextQuestionTypeCycles(t *testing.T) {
	qt := kb.QuestionWithTopic
	qt = kb.NextQuestionType(qt)
	if qt != kb.ShortDialog {
		t.Fatalf("expected SHORT_DIALOG, got %s", qt)
	}
	qt = kb.NextQuestionType(kb.AlgorithmTask)
	if qt != kb.QuestionWithTopic {
		t.Fatalf("expected cycle back to QUESTION_WITH_TOPIC, got %s", qt)
	}
	if kb.NextQuestionType("bogus") != kb.QuestionWithTopic {
		t.Fatal("expected unknown type to reset to QUESTION_WITH_TOPIC")
	}
}

package paging

import (
	"net/http/httptest"
	"testing"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestTrimPage(t *testing.T) {
	tests := []struct {
		name          string
		rows          []int
		before, after string
		wantLen       int
		wantFirst     int
		want          Result
	}{
		{"first page short", seq(3), "", "", 3, 0, Result{}},
		{"first page with look-ahead row", seq(PageSize + 1), "", "", PageSize, 0, Result{HasNext: true}},
		{"forward page short", seq(3), "", "c", 3, 0, Result{HasPrev: true}},
		{"backward page with look-ahead row", seq(PageSize + 1), "c", "", PageSize, 1, Result{HasPrev: true, HasNext: true}},
		{"backward page short", seq(3), "c", "", 3, 0, Result{HasNext: true}},
		{"empty", nil, "", "", 0, 0, Result{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := tt.rows
			got := TrimPage(&rows, tt.before, tt.after)
			if got != tt.want {
				t.Errorf("TrimPage() = %+v, want %+v", got, tt.want)
			}
			if len(rows) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(rows), tt.wantLen)
			}
			if tt.wantLen > 0 && rows[0] != tt.wantFirst {
				t.Errorf("first row = %d, want %d", rows[0], tt.wantFirst)
			}
		})
	}
}

func TestConfigureKeyset(t *testing.T) {
	id := primitive.NewObjectID()
	valid := wafflemongo.EncodeCursor("claire petit", id)

	fwd := ConfigureKeyset("", valid)
	if fwd.Direction != Forward || fwd.SortOrder != 1 {
		t.Errorf("after cursor: got %+v", fwd)
	}
	if fwd.Cursor == nil || fwd.Cursor.ID != id || fwd.Cursor.CI != "claire petit" {
		t.Fatalf("after cursor not decoded: %+v", fwd.Cursor)
	}
	if fwd.KeysetWindow("full_name_ci") == nil {
		t.Error("expected a keyset window for a decoded cursor")
	}

	back := ConfigureKeyset(valid, "ignored")
	if back.Direction != Backward || back.SortOrder != -1 {
		t.Errorf("before cursor should win: got %+v", back)
	}

	first := ConfigureKeyset("", "")
	if first.Cursor != nil || first.KeysetWindow("full_name_ci") != nil {
		t.Error("first page must not filter")
	}

	junk := ConfigureKeyset("", "%%%not-a-cursor")
	if junk.Cursor != nil {
		t.Error("undecodable cursor should be ignored")
	}
}

func TestFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/mentors?before=b1&after=a1", nil)
	before, after := FromRequest(r)
	if before != "b1" || after != "a1" {
		t.Errorf("FromRequest() = %q, %q", before, after)
	}
}

func TestReverse(t *testing.T) {
	rows := []string{"a", "b", "c", "d"}
	Reverse(rows)
	want := []string{"d", "c", "b", "a"}
	for i := range want {
		if rows[i] != want[i] {
			t.Fatalf("Reverse() = %v, want %v", rows, want)
		}
	}
	Reverse([]string{})
}

func TestBuildCursors(t *testing.T) {
	type row struct {
		key string
		id  primitive.ObjectID
	}
	rows := []row{{"alpha", primitive.NewObjectID()}, {"omega", primitive.NewObjectID()}}
	key := func(r row) string { return r.key }
	id := func(r row) primitive.ObjectID { return r.id }

	prev, next := BuildCursors(rows, key, id)
	pc, ok := wafflemongo.DecodeCursor(prev)
	if !ok || pc.CI != "alpha" || pc.ID != rows[0].id {
		t.Errorf("prev cursor = %+v", pc)
	}
	nc, ok := wafflemongo.DecodeCursor(next)
	if !ok || nc.CI != "omega" || nc.ID != rows[1].id {
		t.Errorf("next cursor = %+v", nc)
	}

	if p, n := BuildCursors(nil, key, id); p != "" || n != "" {
		t.Error("empty rows should yield empty cursors")
	}
}

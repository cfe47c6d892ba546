package value

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// Snapshot the rendered form of the shared-tree values after a scripted
// series of mutations, so any change to the dump format or to the
// structural-sharing semantics shows up as a snapshot diff.

func TestUObjectDumpSnapshot(t *testing.T) {
	root := NewUObject(`{"user":{"name":"taro","tags":["a"]},"count":1}`)

	if err := root.Set("count", Num{Val: 2}); err != nil {
		t.Fatal(err)
	}
	tags := root.Sub("user.tags")
	if err := tags.Append(String{Val: "b"}); err != nil {
		t.Fatal(err)
	}
	if err := root.Set("user.active", Bool{Val: true}); err != nil {
		t.Fatal(err)
	}

	snaps.MatchSnapshot(t, "uobject_dump", root.String())
	snaps.MatchSnapshot(t, "uobject_subtree", root.Sub("user").String())
}

func TestHashTblDumpSnapshot(t *testing.T) {
	h := NewHashTbl(HashSort)
	h.Set(String{Val: "b"}, Num{Val: 2})
	h.Set(String{Val: "a"}, Num{Val: 1})
	h.Set(String{Val: "C"}, String{Val: "three"})

	snaps.MatchSnapshot(t, "hashtbl_sorted_dump", h.String())
}

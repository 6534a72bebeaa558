package libdiff

import (
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

type Op int

const (
	Equal Op = iota
	Delete
	Insert
)

func (o Op) String() string {
	switch o {
	case Equal:
		return "="
	case Delete:
		return "-"
	case Insert:
		return "+"
	}
	return "?"
}

// Edit is one step of an edit script. From indexes the source sequence
// (Equal and Delete), To the target sequence (Equal and Insert); the unused
// index is -1.
type Edit struct {
	Op       Op
	From, To int
}

// Sequence returns an edit script turning from into to.
func Sequence(from, to []string) []Edit {
	idMap := map[string]rune{}
	fromRunes := mapIDsTo(idMap, from)
	toRunes := mapIDsTo(idMap, to)
	diffCfg := diffpatch.New()
	diffs := diffCfg.DiffMainRunes(fromRunes, toRunes, false)
	res := make([]Edit, 0, max(len(from), len(to)))
	fi, ti := 0, 0
	for i := range diffs {
		diff := &diffs[i]
		for range []rune(diff.Text) {
			switch diff.Type {
			case diffpatch.DiffDelete:
				res = append(res, Edit{Op: Delete, From: fi, To: -1})
				fi++
			case diffpatch.DiffEqual:
				res = append(res, Edit{Op: Equal, From: fi, To: ti})
				fi++
				ti++
			case diffpatch.DiffInsert:
				res = append(res, Edit{Op: Insert, From: -1, To: ti})
				ti++
			}
		}
	}
	return res
}

// Moved returns the identities present in both sequences which the edit
// script deletes and reinserts.
func Moved(edits []Edit, from, to []string) map[string]bool {
	deleted := map[string]bool{}
	for _, e := range edits {
		if e.Op == Delete {
			deleted[from[e.From]] = true
		}
	}
	res := map[string]bool{}
	for _, e := range edits {
		if e.Op == Insert && deleted[to[e.To]] {
			res[to[e.To]] = true
		}
	}
	return res
}

func mapIDsTo(m map[string]rune, ids []string) []rune {
	rs := make([]rune, len(ids))
	for i, id := range ids {
		r, ok := m[id]
		if !ok {
			r = idRune(len(m))
			m[id] = r
		}
		rs[i] = r
	}
	return rs
}

// idRune skips the surrogate range, which does not survive the string
// conversions inside diffmatchpatch.
func idRune(i int) rune {
	r := rune(i)
	if r >= 0xD800 {
		r += 0x800
	}
	return r
}

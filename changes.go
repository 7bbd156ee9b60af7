package markvis

import (
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Changes summarizes how an improvement altered a document.
type Changes struct {
	Inserted  int  `json:"inserted"`  // characters added
	Deleted   int  `json:"deleted"`   // characters removed
	Unchanged bool `json:"unchanged"` // true when before and after are identical
}

// Summarize compares two versions of a document character by character.
func Summarize(before, after string) Changes {
	if before == after {
		return Changes{Unchanged: true}
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var c Changes
	for _, d := range diffs {
		n := utf8.RuneCountInString(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			c.Inserted += n
		case diffmatchpatch.DiffDelete:
			c.Deleted += n
		}
	}
	return c
}

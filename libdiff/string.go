package libdiff

import (
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// stringEdits returns a character level patch from from to to, or "" when
// the strings share too little for a patch to be useful.
func stringEdits(from, to string) string {
	diffCfg := diffpatch.New()
	doMultiLine := strings.Contains(from, "\n") && strings.Contains(to, "\n")
	diffs := diffCfg.DiffMain(from, to, doMultiLine)
	diffs = diffCfg.DiffCleanupSemantic(diffs)
	diffSize := 0
	for i := range diffs {
		if diffs[i].Type != diffpatch.DiffEqual {
			diffSize += len(diffs[i].Text)
		}
	}
	if diffSize > min(len(from), len(to))/2 {
		return ""
	}
	return diffCfg.PatchToText(diffCfg.PatchMake(from, diffs))
}

// ApplyEdits applies edits produced by a Change to s.
func ApplyEdits(s, edits string) (string, bool) {
	diffCfg := diffpatch.New()
	patches, err := diffCfg.PatchFromText(edits)
	if err != nil {
		return s, false
	}
	res, applied := diffCfg.PatchApply(patches, s)
	for _, ok := range applied {
		if !ok {
			return res, false
		}
	}
	return res, true
}

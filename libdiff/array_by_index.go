package libdiff

import (
	"strconv"
	"strings"

	"github.com/signadot/go-dyn/ir"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// diffArrayByIndex aligns the elements of from and to:
//
//  1. summarize each element as <type>-<value> for scalars and <type> for
//     containers, and map each distinct summary to a rune
//  2. diff the rune sequences
//  3. equal runs are compared element-wise, recursing into containers
//  4. a deletion directly followed by an insertion is a replacement
//
// Paths of removals refer to positions in from; other paths refer to
// positions in to.
func (d *differ) diffArrayByIndex(path string, from, to *ir.Node) {
	m := map[string]rune{}
	fromRunes := mapValues(m, from)
	toRunes := mapValues(m, to)
	diffCfg := diffpatch.New()
	diffs := diffCfg.DiffMainRunes(fromRunes, toRunes, false)

	fi, ti := 0, 0
	for i := range diffs {
		diff := &diffs[i]
		n := len([]rune(diff.Text))
		switch diff.Type {
		case diffpatch.DiffDelete:
			k := 0
			if i+1 < len(diffs) && diffs[i+1].Type == diffpatch.DiffInsert {
				k = min(n, len([]rune(diffs[i+1].Text)))
			}
			for j := range n {
				if j < k {
					d.diff(indexPath(path, ti+j), from.Values[fi+j], to.Values[ti+j])
					continue
				}
				d.add(Change{Path: indexPath(path, fi+j), Op: Remove, From: from.Values[fi+j]})
			}
			fi += n
			if k > 0 {
				// the paired insertions are consumed below
				diffs[i+1].Text = string([]rune(diffs[i+1].Text)[k:])
				ti += k
			}
		case diffpatch.DiffEqual:
			for range n {
				d.diff(indexPath(path, ti), from.Values[fi], to.Values[ti])
				fi++
				ti++
			}
		case diffpatch.DiffInsert:
			for range n {
				d.add(Change{Path: indexPath(path, ti), Op: Add, To: to.Values[ti]})
				ti++
			}
		}
	}
}

func mapValues(m map[string]rune, node *ir.Node) []rune {
	rs := make([]rune, len(node.Values))
	for i, v := range node.Values {
		sum := summaryStr(v)
		r, ok := m[sum]
		if !ok {
			r = rune(len(m))
			m[sum] = r
		}
		rs[i] = r
	}
	return rs
}

func summaryStr(node *ir.Node) string {
	switch node.Type {
	case ir.ObjectType, ir.ArrayType, ir.NullType:
		return node.Type.String()
	case ir.BoolType:
		return node.Type.String() + "-" + strconv.FormatBool(node.Bool)
	case ir.StringType:
		if strings.Contains(node.String, "\n") {
			return node.Type.String() + "/m"
		}
		return node.Type.String() + "-" + node.String
	case ir.NumberType:
		if node.Int64 != nil {
			return node.Type.String() + "-i-" + strconv.FormatInt(*node.Int64, 10)
		}
		if node.Float64 != nil {
			return node.Type.String() + "-f-" + strconv.FormatFloat(*node.Float64, 'f', -1, 64)
		}
		return node.Type.String() + "-" + node.Number
	default:
		return node.Type.String()
	}
}

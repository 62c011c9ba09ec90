// Package visualizer draws a B+ tree snapshot in the terminal, one line per level.
package visualizer

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/Yassin1-prog/Bplus-Visualization/btree"
	"github.com/fatih/color"
)

// Snapshotter is the only thing the visualizer needs from a tree.
type Snapshotter[K cmp.Ordered] interface {
	Snapshot() []btree.NodeView[K]
}

var (
	levelColor    = color.New(color.Faint)
	internalColor = color.New(color.FgCyan, color.Bold)
	leafColor     = color.New(color.FgGreen)
	linkColor     = color.New(color.FgYellow)
)

type Visualizer[K cmp.Ordered] struct {
	Tree Snapshotter[K]
}

/*
Visualize renders the tree top down:

	L0  [10 20]
	L1  [5 6 7] -> [10 12 17] -> [20 30]

Internal nodes are separated by spaces, leaves by arrows following the leaf chain.
*/
func (v *Visualizer[K]) Visualize() string {
	views := v.Tree.Snapshot()
	var sb strings.Builder
	for i, n := range views {
		if i == 0 || views[i-1].Level != n.Level {
			if i > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(levelColor.Sprintf("L%-3d", n.Level))
		} else if n.Leaf {
			sb.WriteString(linkColor.Sprint(" -> "))
		} else {
			sb.WriteString("  ")
		}
		sb.WriteString(formatNode(n))
	}
	return sb.String()
}

func formatNode[K cmp.Ordered](n btree.NodeView[K]) string {
	keys := make([]string, len(n.Keys))
	for i, k := range n.Keys {
		keys[i] = fmt.Sprint(k)
	}
	s := "[" + strings.Join(keys, " ") + "]"
	if n.Leaf {
		return leafColor.Sprint(s)
	}
	return internalColor.Sprint(s)
}

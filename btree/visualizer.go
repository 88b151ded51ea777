package btree

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var (
	levelColor    = color.New(color.FgYellow)
	internalColor = color.New(color.FgCyan, color.Bold)
	leafColor     = color.New(color.FgGreen)
)

// Visualizer draws a tree level by level, one line per depth, internal nodes and leaves
// in different colors.
type Visualizer[K any] struct {
	Tree *Tree[K]
}

// Visualize returns one line per level, starting with the root.
func (v *Visualizer[K]) Visualize() string {
	var sb strings.Builder
	level := []*Node[K]{v.Tree.root}
	for depth := 0; len(level) > 0; depth++ {
		var next []*Node[K]
		sb.WriteString(levelColor.Sprintf("L%d:", depth))
		for _, n := range level {
			sb.WriteByte(' ')
			if n.IsLeaf() {
				sb.WriteString(leafColor.Sprint(formatKeys(n.keys)))
				continue
			}
			sb.WriteString(internalColor.Sprint(formatKeys(n.keys)))
			next = append(next, n.children...)
		}
		sb.WriteByte('\n')
		level = next
	}
	return sb.String()
}

func formatKeys[K any](keys []K) string {
	parts := make([]string, len(keys))
	for i, key := range keys {
		parts[i] = fmt.Sprint(key)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

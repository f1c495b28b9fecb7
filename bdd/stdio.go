// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
)

// String renders the store's usage counters, in the same shape rudd's
// Stats used, for quick inspection in logs.
func (b *BDD) String() string {
	s := b.Stats()
	res := fmt.Sprintf("Varnum:     %d\n", b.Varnum())
	res += fmt.Sprintf("Allocated:  %d\n", s.Nodes)
	res += fmt.Sprintf("Produced:   %d\n", s.Produced)
	r := 0.0
	if s.Nodes > 0 {
		r = (float64(s.Free) / float64(s.Nodes)) * 100
	}
	res += fmt.Sprintf("Free:       %d  (%.3g %%)\n", s.Free, r)
	res += fmt.Sprintf("Used:       %d  (%.3g %%)\n", s.Allocated, 100.0-r)
	res += fmt.Sprintf("GCs:        %d\n", s.GCs)
	return res
}

type dumpnode struct {
	id, level, lo, hi int
}

// allnodes walks every node reachable from roots (or, if roots is
// empty, every live node in the table) and calls visit once per node,
// in ascending id order.
func (b *BDD) allnodes(visit func(dumpnode), roots ...Node) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	seen := make(map[Node]bool)
	var nodes []dumpnode
	var walk func(n Node)
	walk = func(n Node) {
		if n == False || n == True || seen[n] {
			return
		}
		seen[n] = true
		lvl, hi, lo := b.children(n)
		nodes = append(nodes, dumpnode{int(n), int(lvl), int(lo), int(hi)})
		walk(hi)
		walk(lo)
	}
	if len(roots) == 0 {
		for n, nd := range b.nodes {
			if n < 2 || nd.v == freeMarker {
				continue
			}
			walk(Node(n))
		}
	} else {
		for _, r := range roots {
			walk(r)
		}
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].id < nodes[j].id })
	for _, nd := range nodes {
		visit(nd)
	}
}

// Dump writes a Graphviz DOT rendering of the BDDs rooted at roots (or
// the whole live table, if roots is empty) to filename. Passing "-"
// writes to standard output.
func (b *BDD) Dump(filename string, roots ...Node) error {
	var out *os.File
	var err error
	if filename == "-" {
		out = os.Stdout
	} else {
		out, err = os.Create(filename)
		if err != nil {
			return fmt.Errorf("bdd: dump: %w", err)
		}
		defer out.Close()
	}
	w := bufio.NewWriter(out)
	if b.Err() != nil {
		fmt.Fprintf(w, "Error: %s\n", b.Err())
		return w.Flush()
	}
	dump(w, b, roots...)
	return w.Flush()
}

func dump(w io.Writer, b *BDD, roots ...Node) {
	fmt.Fprintln(w, "digraph G {")
	fmt.Fprintln(w, `1 [shape=box, label="1", style=filled, height=0.3, width=0.3];`)
	b.allnodes(func(n dumpnode) {
		fmt.Fprintf(w, "%d %s\n", n.id, dotlabel(n.id, n.level))
		if n.lo != 0 {
			fmt.Fprintf(w, "%d -> %d [style=dotted];\n", n.id, n.lo)
		}
		if n.hi != 0 {
			fmt.Fprintf(w, "%d -> %d [style=filled];\n", n.id, n.hi)
		}
	}, roots...)
	fmt.Fprintln(w, "}")
}

func dotlabel(id, level int) string {
	return fmt.Sprintf(`[label=<
	<FONT POINT-SIZE="20">%d</FONT>
	<FONT POINT-SIZE="10">[%d]</FONT>
>];`, id, level)
}

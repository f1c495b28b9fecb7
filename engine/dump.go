// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package engine

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/tamlang/tau/symbol"
)

// Dump writes every tuple currently in the database to w, one line per
// tuple, decoding each bit-packed argument field back to its symbol
// name via dict. Argument position 0 is the tuple's relation symbol,
// so a line reads naturally as "relation arg arg ...". An enumerated
// assignment whose argument bits include don't-cares stands for several
// tuples; it is expanded into every combination of those bits, one line
// each. A field holding the reserved Pad symbol renders as "*",
// following the padding convention that extends every term up to the
// program-wide arity. Lines are sorted so output is reproducible
// across runs.
func (d *Driver) Dump(w io.Writer, dict *symbol.Dict) error {
	var lines []string
	err := d.B.AllSat(d.DB, func(assignment []int8) error {
		width := d.Ar * d.Bits
		tuple := append([]int8(nil), assignment[:width]...)
		var free []int
		for i, bit := range tuple {
			if bit < 0 {
				free = append(free, i)
			}
		}
		for combo := 0; combo < 1<<uint(len(free)); combo++ {
			for k, i := range free {
				tuple[i] = int8((combo >> uint(k)) & 1)
			}
			fields := make([]string, d.Ar)
			for pos := range fields {
				fields[pos] = decodeField(tuple, pos, d.Bits, dict)
			}
			lines = append(lines, strings.Join(fields, " "))
		}
		return nil
	})
	if err != nil {
		return err
	}
	sort.Strings(lines)
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

func decodeField(assignment []int8, pos, bits int, dict *symbol.Dict) string {
	var v int32
	for bi := 0; bi < bits; bi++ {
		bit := assignment[pos*bits+bi]
		if bit < 0 {
			return "*"
		}
		if bit == 1 {
			v |= int32(1) << uint(bi)
		}
	}
	if v == symbol.Pad {
		return "*"
	}
	return dict.Name(v)
}

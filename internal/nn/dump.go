package nn

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/exp/constraints"
)

const dumpDigits = 6

// Print writes a human-readable description of every unit: its role,
// weights by source, threshold, connection targets, and impulse cache.
// The format is not stable.
func (n *Network[T]) Print(w io.Writer) error {
	n.Build()
	var b strings.Builder
	fmt.Fprintf(&b, "network %s: %s units, %s edges, activation=%s\n",
		n.id, humanize.Comma(int64(len(n.units))), humanize.Comma(int64(n.EdgeCount())), n.activation)
	for _, u := range n.units {
		fmt.Fprintf(&b, "[%s] unit\n", u.id)
		if n.isInputLayer(u.id) {
			fmt.Fprintf(&b, "\tinput unit %s\n", u.id)
		} else {
			b.WriteString("\tweights:")
			for _, src := range u.incoming {
				fmt.Fprintf(&b, " %s(from %s)", formatValue(u.weight[src]), src)
			}
			b.WriteString("\n")
			fmt.Fprintf(&b, "\tthreshold: %s\n", formatValue(u.threshold))
			fmt.Fprintf(&b, "\tcache of [%s]:\n", u.id)
			for _, src := range u.incoming {
				fmt.Fprintf(&b, "\t\tcache[%s] = %s\n", src, formatValue(u.cache[src]))
			}
		}
		if n.isOutputLayer(u.id) {
			fmt.Fprintf(&b, "\toutput unit %s, activation=%s\n", u.id, formatValue(u.activation))
		} else {
			b.WriteString("\tconnects to:\n")
			for _, target := range u.outgoing {
				fmt.Fprintf(&b, "\t  * %s\n", target)
			}
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func formatValue[T constraints.Float](v T) string {
	return humanize.FtoaWithDigits(float64(v), dumpDigits)
}

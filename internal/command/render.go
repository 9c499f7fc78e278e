package command

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Alp4ka/moderator"
)

const maxTitleWidth = 40

func renderPage(w io.Writer, items []moderator.Item, page, size int, filter moderator.Filter) {
	fmt.Fprintf(w, "Page %d (size %d, filter: %s)\n", page, size, describeFilter(filter))

	if len(items) == 0 {
		fmt.Fprintln(w, "No items")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tSTATUS\tTITLE\tCATEGORY\tSTATION\tDATE\tPOSTED BY")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			item.ID,
			item.Type,
			item.Status.OrActive(),
			truncate(item.Title, maxTitleWidth),
			item.Category,
			item.StationOrTrain,
			item.DisplayDate(),
			item.PostedByEmail,
		)
	}
	_ = tw.Flush()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[:n-1]) + "…"
}

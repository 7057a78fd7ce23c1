package giveaways

import (
	"fmt"
	"strings"

	"raffler/models"
)

// announcementMessage builds the message participants react to. The spoilered
// id at the end is what finish/cancel take as their argument.
func announcementMessage(g *models.Giveaway, description string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n%s", g.Title, description)
	if g.Deadline != nil {
		fmt.Fprintf(&b, "\n\nEnds <t:%d:f>", g.Deadline.Unix())
	}
	fmt.Fprintf(&b, "\n\nReact with %s to enter.\nThere will be %d winner(s)!", g.Symbol, g.WinnerCount)
	fmt.Fprintf(&b, "\n||%s||", g.ID)
	return b.String()
}

func listLine(g *models.Giveaway) string {
	var b strings.Builder
	fmt.Fprintf(&b, "`%s` **%s** — %d winner(s), %d entered", g.ID, g.Title, g.WinnerCount, len(g.Participants))
	if g.Deadline != nil {
		fmt.Fprintf(&b, ", ends <t:%d:f>", g.Deadline.Unix())
	} else {
		b.WriteString(", manual finish")
	}
	return b.String()
}

func listMessage(lines []string) string {
	return "**Active giveaways**\n" + strings.Join(lines, "\n")
}

// Package render turns an assigned box into a printable label: a QR payload,
// a QR PNG, and a LaTeX document compiled to PDF.
package render

import (
	"fmt"
	"strings"

	"github.com/pkordes/boxlabel/internal/domain"
)

// Payload builds the QR code contents for a box. The first line carries the
// box identity and its matching mode; each subsequent line carries one tag
// name with its matching depth. Lines are CRLF-separated because the
// downstream scanner app splits on that.
func Payload(box *domain.Box, withTags bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s,%s,%.2f,%.2f,%t",
		box.Hole(), box.Name(), box.StartingDepth(), box.EndingDepth(), box.TagAtSampleStart())

	if !withTags {
		return b.String()
	}
	for _, tag := range box.Tags() {
		depth := tag.EndingDepth()
		if box.TagAtSampleStart() {
			depth = tag.StartingDepth()
		}
		fmt.Fprintf(&b, "\r\n%s,%.2f", tag.Name(), depth)
	}
	return b.String()
}

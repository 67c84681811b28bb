package render

import (
	"fmt"
	"strings"

	"github.com/pkordes/boxlabel/internal/domain"
)

// Size selects the label stock the document is typeset for.
type Size string

const (
	// SizeSmall is DYMO 30252 Address stock, 28x89 mm.
	SizeSmall Size = "small"

	// SizeLarge is DYMO 30323 Shipping stock, 59x102 mm.
	SizeLarge Size = "large"
)

// ParseSize validates a label-size configuration value. Unknown values fail
// with domain.ErrUnsupportedLabelSize; there is no default stock.
func ParseSize(s string) (Size, error) {
	switch Size(strings.ToLower(s)) {
	case SizeSmall:
		return SizeSmall, nil
	case SizeLarge:
		return SizeLarge, nil
	default:
		return "", fmt.Errorf("render.ParseSize: %w: %q", domain.ErrUnsupportedLabelSize, s)
	}
}

// maxMarkers returns how many tag lines fit the stock before the table is
// elided, and how many to keep from each end when it is.
func (s Size) maxMarkers() (limit, keep int) {
	if s == SizeLarge {
		return 26, 12
	}
	return 10, 4
}

// Document typesets the label as a LaTeX source file: the QR image on the
// left, the box identity and a two-column tag table on the right, landscape
// on the given stock. payload is the same text encoded into the QR image;
// imageName is the QR file's name relative to the compile directory.
func Document(payload, imageName string, size Size, tagsEnabled bool) string {
	var b strings.Builder
	line := func(s string) { b.WriteString(s + "\n") }

	line(`\documentclass{article}`)
	line(`\usepackage[export]{adjustbox}`)
	line(`\usepackage{float}`)
	switch size {
	case SizeSmall:
		line(`\usepackage[margin=0mm, left=1mm, right=1mm, top=4mm, bottom=4mm, paperwidth=28mm, paperheight=89mm]{geometry}`)
	case SizeLarge:
		line(`\usepackage[margin=0mm, left=4mm, right=1mm, top=1mm, bottom=1mm, paperwidth=59mm, paperheight=102mm]{geometry}`)
	}
	line(`\usepackage{graphicx}`)
	line(`\usepackage{pdflscape}`)
	line(`\usepackage[scaled]{beramono}`)
	line(`\renewcommand*\familydefault{\ttdefault}`)
	line(`\usepackage[T1]{fontenc}`)
	line(`\begin{document}`)
	line(`\begin{landscape}`)
	line(`\noindent`)

	switch size {
	case SizeSmall:
		line(`\begin{minipage}{30mm}`)
		line(fmt.Sprintf(`\includegraphics[width=25mm, height=25mm]{%s}`, imageName))
		line(`\end{minipage}`)
		line(`\hspace{-7.5mm}`)
		line(`\begin{minipage}{50mm}`)
	case SizeLarge:
		line(`\begin{minipage}{55mm}`)
		line(fmt.Sprintf(`\includegraphics[width=50mm, height=50mm]{%s}`, imageName))
		line(`\end{minipage}`)
		line(`\hspace{-7.5mm}`)
		line(`\begin{minipage}{45mm}`)
	}

	line(`\begin{adjustbox}{max width=\textwidth}`)
	line(`\centering`)
	line(`\begin{tabular}{c c}`)

	markers := strings.Split(payload, "\r\n")
	header := strings.Split(markers[0], ",")
	markers = markers[1:]

	// The header's last field is the matching-mode flag; on the printed
	// label it reads as a sentence, or nothing when tags are off.
	mode := ""
	if tagsEnabled {
		if strings.EqualFold(header[len(header)-1], "true") {
			mode = "Samples starts at tags"
		} else {
			mode = "Samples ends at tags"
		}
	}
	line(fmt.Sprintf(`\multicolumn{2}{c}{\large\textbf{%s}\par} \\`, strings.Join(header[:len(header)-1], ",")))
	line(fmt.Sprintf(`\multicolumn{2}{c}{\large\textbf{%s}\par} \\`, mode))

	markers = elide(markers, size)
	for i, sample := range markers {
		last := i+1 == len(markers)
		if i%2 == 0 {
			if last {
				b.WriteString(sample + " &\n")
			} else {
				b.WriteString(sample)
			}
		} else {
			if last {
				b.WriteString(" & " + sample + "\n")
			} else {
				b.WriteString(" & " + sample + ` \\` + "\n")
			}
		}
	}

	line(`\end{tabular}`)
	line(`\end{adjustbox}`)
	line(`\end{minipage}`)
	line(`\end{landscape}`)
	line(`\end{document}`)
	return b.String()
}

// elide shortens a tag list that cannot fit the stock, keeping both ends and
// marking the gap with \cdots rows.
func elide(markers []string, size Size) []string {
	limit, keep := size.maxMarkers()
	if len(markers) <= limit {
		return markers
	}
	out := make([]string, 0, 2*keep+2)
	out = append(out, markers[:keep]...)
	out = append(out, `\cdots`, `\cdots`)
	out = append(out, markers[len(markers)-keep:]...)
	return out
}

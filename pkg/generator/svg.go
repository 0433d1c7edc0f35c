package generator

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

const (
	svgOpen    = `<svg xmlns="http://www.w3.org/2000/svg" preserveAspectRatio="xMinYMin meet" viewBox="0 0 350 350">`
	svgStyle   = `<style>.base { fill: white; font-family: serif; font-size: 14px; }</style>`
	svgBack    = `<rect width="100%" height="100%" fill="black" />`
	lineHeight = 20
)

func renderSVG(bag Bag) []byte {
	var buf bytes.Buffer
	buf.WriteString(svgOpen)
	buf.WriteString(svgStyle)
	buf.WriteString(svgBack)
	for i, it := range bag.Items {
		fmt.Fprintf(&buf, `<text x="10" y="%d" class="base">`, lineHeight*(i+1))
		// EscapeText only fails on writer errors; bytes.Buffer has none.
		_ = xml.EscapeText(&buf, []byte(it.Name))
		buf.WriteString(`</text>`)
	}
	buf.WriteString(`</svg>`)
	return buf.Bytes()
}

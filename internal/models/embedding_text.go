// ABOUTME: Ordered field assembly for embedding input text
// ABOUTME: Each field contributes a formatted line only when present
package models

import "strings"

// textField is one entry of an ordered embedding text layout
type textField struct {
	present func() bool
	format  func() string
}

// assembleText joins the formatted present fields with newlines, in list order
func assembleText(fields []textField) string {
	var parts []string
	for _, f := range fields {
		if !f.present() {
			continue
		}
		if s := strings.TrimSpace(f.format()); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}

func joinList(values []string) string {
	return strings.Join(values, ", ")
}

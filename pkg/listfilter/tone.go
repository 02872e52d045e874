package listfilter

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tone is the badge colour family for a status.
type Tone string

const (
	ToneSuccess Tone = "success"
	ToneWarning Tone = "warning"
	ToneInfo    Tone = "info"
	ToneDanger  Tone = "danger"
	ToneNeutral Tone = "neutral"
)

// StatusTone maps a status onto its badge tone.
func StatusTone(status string) Tone {
	switch status {
	case "confirmed", "completed":
		return ToneSuccess
	case "pending":
		return ToneWarning
	case "refunded":
		return ToneInfo
	case "cancelled":
		return ToneDanger
	default:
		return ToneNeutral
	}
}

// StatusLabel capitalises the first letter of status for display.
func StatusLabel(status string) string {
	status = strings.TrimSpace(status)
	if status == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(status)
	return string(unicode.ToUpper(r)) + status[size:]
}

package errors

import (
	"strconv"
	"strings"
)

// MessageDefinition describes one error or audit message: a stable id, the HTTP code reported
// with it, a template with {0}-style placeholders and the actions expected of the system and
// of the user.
type MessageDefinition struct {
	ID           string `json:"messageId"`
	HTTPCode     int    `json:"httpCode,omitempty"`
	Severity     string `json:"severity,omitempty"`
	Template     string `json:"messageTemplate"`
	SystemAction string `json:"systemAction"`
	UserAction   string `json:"userAction"`
}

// Format substitutes the parameters into the template. Missing parameters leave the
// placeholder untouched so badly formed calls remain visible in the logs.
func (d MessageDefinition) Format(params ...string) string {
	msg := d.Template
	for i, p := range params {
		msg = strings.ReplaceAll(msg, "{"+strconv.Itoa(i)+"}", p)
	}
	return msg
}

// Placeholders reports how many distinct {n} parameters the template expects.
func (d MessageDefinition) Placeholders() int {
	n := 0
	for strings.Contains(d.Template, "{"+strconv.Itoa(n)+"}") {
		n++
	}
	return n
}

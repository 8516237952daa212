// Package logs writes one JSON object per line to stdout. Handlers attach
// request-scoped fields (route, ids, error text) to each entry.
package logs

import (
	"encoding/json"
	"log"
	"os"
	"time"
)

var out = log.New(os.Stdout, "", 0)

// LogJSON emits a single log line. severity is one of DEBUG, INFO, WARN,
// ERROR or FATAL; fields cannot override severity, message or time.
func LogJSON(severity, message string, fields map[string]interface{}) {
	entry := make(map[string]interface{}, len(fields)+3)
	for k, v := range fields {
		entry[k] = v
	}
	entry["severity"] = severity
	entry["message"] = message
	entry["time"] = time.Now().Format(time.RFC3339)

	raw, _ := json.Marshal(entry)
	out.Println(string(raw))
}

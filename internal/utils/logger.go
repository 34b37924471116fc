package utils

import (
	"log"
	"strings"
)

// LogEvent prints one line per domain event. module is the area (booking,
// docs, auth), action the verb; message carries ids, slots and amounts,
// never customer names or phones.
func LogEvent(requestID, module, action, message string) {
	log.Printf("[%s] action=%s request_id=%s msg=%s",
		strings.ToUpper(module), action, strings.TrimSpace(requestID), message)
}

package pharmacyapi

import (
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/sangkips/pharmacy-pos/pkg/apperror"
)

// reservedErrorKeys never name a form field in an error payload.
var reservedErrorKeys = map[string]bool{
	"message": true,
	"error":   true,
	"errors":  true,
	"detail":  true,
	"status":  true,
	"success": true,
	"code":    true,
}

// decodeError turns a failed backend response into an AppError. It accepts
// {"message": ...}, {"error": ...}, {"detail": ...} and field maps such as
// {"name": ["This field is required."]}, nested or not under "errors"/"error".
func decodeError(resp *http.Response) *apperror.AppError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		msg := strings.TrimSpace(string(body))
		if len(msg) > 200 || strings.HasPrefix(msg, "<") {
			msg = ""
		}
		return apperror.NewUpstreamError(resp.StatusCode, msg, nil)
	}

	message := firstString(payload, "message", "error", "detail")

	fields := fieldErrors(payload)
	for _, key := range []string{"errors", "error"} {
		var nested map[string]json.RawMessage
		if raw, ok := payload[key]; ok && json.Unmarshal(raw, &nested) == nil {
			fields = append(fields, fieldErrors(nested)...)
			if message == "" {
				message = firstString(nested, "message", "detail")
			}
		}
	}

	if message == "" && len(fields) > 0 {
		message = fields[0].Field + ": " + fields[0].Message
	}
	return apperror.NewUpstreamError(resp.StatusCode, message, fields)
}

func firstString(payload map[string]json.RawMessage, keys ...string) string {
	for _, key := range keys {
		raw, ok := payload[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s
		}
	}
	return ""
}

func fieldErrors(payload map[string]json.RawMessage) []apperror.FieldError {
	var out []apperror.FieldError
	for key, raw := range payload {
		if reservedErrorKeys[key] {
			continue
		}
		if msg := fieldMessage(raw); msg != "" {
			out = append(out, apperror.FieldError{Field: key, Message: msg})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}

func fieldMessage(raw json.RawMessage) string {
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return list[0]
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}

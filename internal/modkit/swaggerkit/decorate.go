package swaggerkit

import (
	"net/http"

	perr "missionsync/internal/platform/errors"
)

// decorate pins the document to OAS 3.0.3 (the UI cannot render 3.1 or lift
// swagger 2 itself), points servers at /api/v1 and gives every operation the
// envelope-shaped 400 and 500 answers handlers never declare
func decorate(spec map[string]any, titleSuffix string) {
	delete(spec, "swagger")
	spec["openapi"] = "3.0.3"
	if _, ok := spec["servers"]; !ok {
		spec["servers"] = []any{map[string]any{"url": "/api/v1"}}
	}
	if info := child(spec, "info"); titleSuffix != "" {
		title, _ := info["title"].(string)
		info["title"] = title + " " + titleSuffix
	}

	schemas := child(child(spec, "components"), "schemas")
	if _, ok := schemas["Envelope"]; !ok {
		schemas["Envelope"] = envelopeSchema
	}

	defaults := map[string]any{
		"400": errorResponse(http.StatusBadRequest, perr.ErrorCodeValidation, "uploader is a required field", "uploader"),
		"500": errorResponse(http.StatusInternalServerError, perr.ErrorCodePanic, "panic recovered", ""),
	}
	paths, _ := spec["paths"].(map[string]any)
	for _, p := range paths {
		ops, ok := p.(map[string]any)
		if !ok {
			continue
		}
		for _, o := range ops {
			op, ok := o.(map[string]any)
			if !ok {
				continue
			}
			responses := child(op, "responses")
			for status, resp := range defaults {
				if _, ok := responses[status]; !ok {
					responses[status] = resp
				}
			}
		}
	}
}

// child returns m[key] as an object, creating it when missing or mistyped
func child(m map[string]any, key string) map[string]any {
	c, ok := m[key].(map[string]any)
	if !ok {
		c = map[string]any{}
		m[key] = c
	}
	return c
}

var envelopeSchema = map[string]any{
	"type":        "object",
	"description": "Body of every API answer",
	"required":    []any{"status_code", "status"},
	"properties": map[string]any{
		"status_code": map[string]any{"type": "integer", "format": "int32"},
		"status":      map[string]any{"type": "string"},
		"code":        map[string]any{"type": "integer", "format": "int32"},
		"error":       map[string]any{"type": "string"},
		"field":       map[string]any{"type": "string"},
		"request_id":  map[string]any{"type": "string"},
		"data":        map[string]any{},
	},
}

func errorResponse(status int, code perr.ErrorCode, msg, field string) map[string]any {
	example := map[string]any{
		"status_code": status,
		"status":      http.StatusText(status),
		"code":        int(code),
		"error":       msg,
		"request_id":  "host/abc-000001",
	}
	if field != "" {
		example["field"] = field
	}
	return map[string]any{
		"description": http.StatusText(status),
		"content": map[string]any{
			"application/json": map[string]any{
				"schema":  map[string]any{"$ref": "#/components/schemas/Envelope"},
				"example": example,
			},
		},
	}
}

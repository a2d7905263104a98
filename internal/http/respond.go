package http

import (
	"encoding/json"
	"html/template"
	"net/http"
)

// HTMXResponse builds HTMX responses: HX-Trigger events plus an HTML
// fragment body.
type HTMXResponse struct {
	triggers   map[string]interface{}
	statusCode int
	body       []byte
	headers    map[string]string
}

func NewHTMXResponse() *HTMXResponse {
	return &HTMXResponse{
		triggers:   make(map[string]interface{}),
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

func (b *HTMXResponse) Status(code int) *HTMXResponse {
	b.statusCode = code
	return b
}

// Trigger adds a named client event to the HX-Trigger header.
func (b *HTMXResponse) Trigger(name string, data interface{}) *HTMXResponse {
	b.triggers[name] = data
	return b
}

// TriggerStateChanged marks any mutation of the transaction list or mode so
// the client refreshes every dependent partial.
func (b *HTMXResponse) TriggerStateChanged() *HTMXResponse {
	return b.Trigger("state:changed", struct{}{})
}

func (b *HTMXResponse) TriggerTransactionCreated(month string) *HTMXResponse {
	return b.Trigger("transaction:created", map[string]string{"month": month}).TriggerStateChanged()
}

func (b *HTMXResponse) TriggerTransactionDeleted(id string) *HTMXResponse {
	return b.Trigger("transaction:deleted", map[string]string{"id": id}).TriggerStateChanged()
}

func (b *HTMXResponse) TriggerFiltersChanged() *HTMXResponse {
	return b.Trigger("filters:changed", struct{}{}).TriggerStateChanged()
}

func (b *HTMXResponse) TriggerModeChanged(enabled bool) *HTMXResponse {
	return b.Trigger("mode:changed", map[string]bool{"enabled": enabled}).TriggerStateChanged()
}

func (b *HTMXResponse) TriggerReset() *HTMXResponse {
	return b.Trigger("state:reset", struct{}{}).TriggerStateChanged()
}

func (b *HTMXResponse) Header(name, value string) *HTMXResponse {
	b.headers[name] = value
	return b
}

// BodyHTML sets the response body as an HTML fragment.
func (b *HTMXResponse) BodyHTML(html string) *HTMXResponse {
	b.headers["Content-Type"] = "text/html; charset=utf-8"
	b.body = []byte(html)
	return b
}

// Write sends the built response.
func (b *HTMXResponse) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	if len(b.triggers) > 0 {
		if triggerJSON, err := json.Marshal(b.triggers); err == nil {
			w.Header().Set("HX-Trigger", string(triggerJSON))
		}
	}
	w.WriteHeader(b.statusCode)
	if len(b.body) > 0 {
		_, _ = w.Write(b.body)
	}
}

// ErrorResponse renders a standard error fragment; the message is escaped.
func ErrorResponse(statusCode int, message string) *HTMXResponse {
	escaped := template.HTMLEscapeString(message)
	return NewHTMXResponse().
		Status(statusCode).
		BodyHTML(`<div class="error">` + escaped + `</div>`)
}

func BadRequestError(message string) *HTMXResponse {
	return ErrorResponse(http.StatusBadRequest, message)
}

func UnprocessableEntityError(message string) *HTMXResponse {
	return ErrorResponse(http.StatusUnprocessableEntity, message)
}

func InternalServerError(message string) *HTMXResponse {
	return ErrorResponse(http.StatusInternalServerError, message)
}

func MethodNotAllowedError(allowed string) *HTMXResponse {
	return NewHTMXResponse().
		Status(http.StatusMethodNotAllowed).
		Header("Allow", allowed)
}

// RequirePOST rejects non-POST requests with a 405.
func RequirePOST(r *http.Request) *HTMXResponse {
	if r.Method == http.MethodPost {
		return nil
	}
	return MethodNotAllowedError(http.MethodPost)
}

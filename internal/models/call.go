// internal/models/call.go
package models

import (
	"encoding/json"
	"errors"

	"github.com/tidwall/gjson"
)

const EventEndOfCallReport = "end-of-call-report"

var ErrMalformedPayload = errors.New("payload is not valid JSON")

// CallEvent is the subset of a voice platform webhook the lead pipeline
// reads. Every field degrades to its zero value when the payload lacks it.
type CallEvent struct {
	Type              string             `json:"type"`
	Call              Call               `json:"call"`
	StructuredOutputs []StructuredOutput `json:"structuredOutputs,omitempty"`
	Analysis          Analysis           `json:"analysis"`
	Transcript        string             `json:"transcript,omitempty"`
}

type Call struct {
	ID          string   `json:"id"`
	AssistantID string   `json:"assistantId"`
	Customer    Customer `json:"customer"`
}

type Customer struct {
	Number string `json:"number"`
}

// StructuredOutput is one entry of artifact.structuredOutputs, kept in
// document order.
type StructuredOutput struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Result    json.RawMessage `json:"result,omitempty"`
	HasResult bool            `json:"-"`
}

type Analysis struct {
	Summary        string          `json:"summary"`
	StructuredData json.RawMessage `json:"structuredData,omitempty"`
}

// ParseCallEvent reads a webhook body. The platform wraps events in a
// {"message": {...}} envelope; a bare event object carrying "type" at the
// top level is accepted too. Only invalid JSON is an error.
func ParseCallEvent(body []byte) (*CallEvent, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrMalformedPayload
	}

	root := gjson.ParseBytes(body)
	msg := root.Get("message")
	if !msg.IsObject() && root.Get("type").Exists() {
		msg = root
	}

	event := &CallEvent{
		Type: stringAt(msg, "type"),
		Call: Call{
			ID:          stringAt(msg, "call.id"),
			AssistantID: firstString(msg, "call.assistantId", "assistantId", "assistant.id"),
			Customer: Customer{
				Number: firstString(msg, "call.customer.number", "customer.number"),
			},
		},
		StructuredOutputs: parseStructuredOutputs(msg.Get("artifact.structuredOutputs")),
		Analysis: Analysis{
			Summary: firstString(msg, "analysis.summary", "call.analysis.summary"),
		},
		Transcript: firstString(msg, "artifact.transcript", "transcript"),
	}

	for _, path := range []string{"analysis.structuredData", "call.analysis.structuredData"} {
		if r := msg.Get(path); r.Exists() && r.Type != gjson.Null {
			event.Analysis.StructuredData = json.RawMessage(r.Raw)
			break
		}
	}

	return event, nil
}

// parseStructuredOutputs accepts the documented id-keyed object as well as
// a plain array of outputs.
func parseStructuredOutputs(r gjson.Result) []StructuredOutput {
	if !r.IsObject() && !r.IsArray() {
		return nil
	}

	var outputs []StructuredOutput
	r.ForEach(func(key, value gjson.Result) bool {
		out := StructuredOutput{ID: key.String()}
		if r.IsArray() {
			out.ID = stringAt(value, "id")
		}
		if value.IsObject() {
			out.Name = stringAt(value, "name")
			if res := value.Get("result"); res.Exists() {
				out.Result = json.RawMessage(res.Raw)
				out.HasResult = true
			}
		}
		outputs = append(outputs, out)
		return true
	})
	return outputs
}

func stringAt(r gjson.Result, path string) string {
	v := r.Get(path)
	switch v.Type {
	case gjson.String:
		return v.Str
	case gjson.Number:
		return v.Raw
	}
	return ""
}

func firstString(r gjson.Result, paths ...string) string {
	for _, p := range paths {
		if s := stringAt(r, p); s != "" {
			return s
		}
	}
	return ""
}

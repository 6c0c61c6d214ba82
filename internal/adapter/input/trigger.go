package input

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jmylchreest/toasty/internal/model"
)

// ErrNoMessage is returned when a trigger object carries no showMessage payload.
var ErrNoMessage = errors.New("no showMessage payload")

// message is the wire form of a showMessage payload.
type message struct {
	Text string `json:"text"`
	Type string `json:"type,omitempty"`
}

// EncodeTrigger builds an HX-Trigger header value that fires event (with
// no detail) followed by showMessage carrying req. An empty event, or
// event equal to showMessage, yields a single-key object.
func EncodeTrigger(event string, req model.NotificationRequest) ([]byte, error) {
	payload, err := marshalNoEscape(message{Text: req.Text, Type: req.Type})
	if err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	if event != "" && event != model.EventShowMessage {
		key, err := marshalNoEscape(event)
		if err != nil {
			return nil, fmt.Errorf("failed to encode event name: %w", err)
		}
		buf.Write(key)
		buf.WriteString(":null,")
	}
	buf.WriteString(`"` + model.EventShowMessage + `":`)
	buf.Write(payload)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// DecodeTrigger extracts the showMessage request from an HX-Trigger style
// object. A bare {"text": ..., "type": ...} object is accepted as well, and
// a string payload ({"showMessage": "Saved"}) is taken as text with no type.
func DecodeTrigger(data []byte) (model.NotificationRequest, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return model.NotificationRequest{}, fmt.Errorf("failed to parse trigger: %w", err)
	}

	raw, ok := fields[model.EventShowMessage]
	if !ok {
		if _, bare := fields["text"]; !bare {
			return model.NotificationRequest{}, ErrNoMessage
		}
		raw = data
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return model.NotificationRequest{}, ErrNoMessage
	}

	if raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return model.NotificationRequest{}, fmt.Errorf("failed to parse message text: %w", err)
		}
		return model.NotificationRequest{Text: text}, nil
	}

	var msg message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return model.NotificationRequest{}, fmt.Errorf("failed to parse message: %w", err)
	}
	return model.NotificationRequest{Text: msg.Text, Type: msg.Type}, nil
}

// ParseLine decodes one line of line-oriented input. JSON objects go
// through DecodeTrigger; anything else is taken verbatim as the message text.
func ParseLine(line string) (model.NotificationRequest, error) {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "{") {
		return DecodeTrigger([]byte(trimmed))
	}
	return model.NotificationRequest{Text: line}, nil
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

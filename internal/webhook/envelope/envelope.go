// Package envelope decodes the provider-agnostic base event from an authenticated body.
package envelope

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/webhooks/internal/validation"
	"github.com/allisson/webhooks/internal/webhook/domain"
	"github.com/allisson/webhooks/internal/webhook/signature"
)

// rawEnvelope is the wire shape shared by every event type.
// Fields other than these are ignored.
type rawEnvelope struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Created int64           `json:"created"`
	Data    json.RawMessage `json:"data"`
}

var errDataNotObject = validation.NewError("validation_data_object", "must be a JSON object")

func isJSONObject(value any) error {
	raw, _ := value.(json.RawMessage)
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return errDataNotObject
	}
	return nil
}

// Validate checks the envelope fields.
func (e rawEnvelope) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.ID, validation.Required, customValidation.NotBlank),
		validation.Field(&e.Type, validation.Required, customValidation.NotBlank),
		validation.Field(&e.Data, validation.By(isJSONObject)),
	)
}

// Parser turns a verified delivery into a BaseEvent.
type Parser struct{}

// NewParser creates a Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes and validates the envelope. Failures are returned as *domain.PayloadError.
func (p *Parser) Parse(event signature.VerifiedEvent) (domain.BaseEvent, error) {
	var env rawEnvelope
	if err := json.Unmarshal(event.Body(), &env); err != nil {
		return domain.BaseEvent{}, domain.NewPayloadError("", map[string]string{"body": describeDecodeError(err)})
	}

	if err := env.Validate(); err != nil {
		return domain.BaseEvent{}, domain.NewPayloadError(env.Type, customValidation.Issues(err, ""))
	}

	var created time.Time
	if env.Created > 0 {
		created = time.Unix(env.Created, 0).UTC()
	}

	return domain.BaseEvent{
		ID:      env.ID,
		Type:    env.Type,
		Created: created,
		Data:    env.Data,
	}, nil
}

// describeDecodeError keeps decoder messages free of Go type names.
func describeDecodeError(err error) string {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return "must be valid JSON"
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if typeErr.Field != "" {
			return typeErr.Field + " has the wrong type"
		}
		return "must be a JSON object"
	}
	return "must be valid JSON"
}

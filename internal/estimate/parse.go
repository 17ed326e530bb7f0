package estimate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// AIParseFailure reports a model reply that is not the expected JSON shape.
type AIParseFailure struct {
	Raw string
	Err error
}

func (e *AIParseFailure) Error() string {
	return fmt.Sprintf("invalid AI response: %v", e.Err)
}

func (e *AIParseFailure) Unwrap() error { return e.Err }

// decodeReply decodes raw into v and validates it. Text around the JSON
// object is not tolerated.
func decodeReply(raw string, v interface{}) error {
	dec := json.NewDecoder(strings.NewReader(raw))
	if err := dec.Decode(v); err != nil {
		return &AIParseFailure{Raw: raw, Err: err}
	}
	if dec.More() {
		return &AIParseFailure{Raw: raw, Err: fmt.Errorf("unexpected data after JSON object")}
	}
	if err := validate.Struct(v); err != nil {
		return &AIParseFailure{Raw: raw, Err: err}
	}
	return nil
}

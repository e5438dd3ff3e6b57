// Package api holds the wire types shared by every HTTP handler.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
)

// Error messages that are part of the public contract.
const (
	MsgPleaseAuthenticate = "please authenticate"
	MsgInvalidUpdates     = "Invalid Updates"
	MsgInternal           = "internal server error"
	MsgInvalidBody        = "invalid request body"
)

// ErrUnknownField is returned by DecodePatch when the body holds a key outside the whitelist.
var ErrUnknownField = errors.New("unknown field")

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is a generic acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// BindMessage picks the 400 message for a failed gin bind. Only binding-tag
// violations get missing; syntax and type errors get MsgInvalidBody.
func BindMessage(err error, missing string) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return missing
	}
	return MsgInvalidBody
}

// DecodePatch decodes a JSON object into dst after checking every key is in allowed.
// dst is typically a struct of pointer fields so absent keys stay nil.
func DecodePatch(r io.Reader, allowed []string, dst any) error {
	body, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}

	allow := make(map[string]struct{}, len(allowed))
	for _, k := range allowed {
		allow[k] = struct{}{}
	}
	for k := range raw {
		if _, ok := allow[k]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownField, k)
		}
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

package api

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
)

// envelopeShape is the decoded layout of a response body. The server
// reports business failures in the body, sometimes with HTTP 200, so the
// shape decides success or failure rather than the status code.
type envelopeShape int

const (
	shapeUnrecognized envelopeShape = iota
	// {"result": "SUCCESS", "response": {...}}
	shapeSuccessA
	// {"result": "...", "error": {"code", "message"}}
	shapeErrorA
	// {"data": [...]}
	shapeSuccessB
	// {"errors": [{"error_code", "error_message"}, ...]}
	shapeErrorB
)

func (s envelopeShape) String() string {
	switch s {
	case shapeSuccessA:
		return "success(result)"
	case shapeErrorA:
		return "error(result)"
	case shapeSuccessB:
		return "success(data)"
	case shapeErrorB:
		return "error(errors)"
	default:
		return "unrecognized"
	}
}

const errorCodePrefix = "ERR"

func classifyEnvelope(body []byte) envelopeShape {
	if !gjson.ValidBytes(body) {
		return shapeUnrecognized
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return shapeUnrecognized
	}
	// the errors array wins over anything else in the body
	if root.Get("errors").IsArray() {
		return shapeErrorB
	}
	if result := root.Get("result"); result.Exists() && result.Type != gjson.Null {
		if result.String() == "SUCCESS" {
			return shapeSuccessA
		}
		return shapeErrorA
	}
	if root.Get("error").IsObject() {
		return shapeErrorA
	}
	if root.Get("data").Exists() {
		return shapeSuccessB
	}
	return shapeUnrecognized
}

// normalize fails with *APIError when the body carries an "errors" array.
// Any other body is passed through for the operation to read.
func normalize(resp *Response) error {
	if classifyEnvelope(resp.Body) != shapeErrorB {
		return nil
	}
	first := gjson.GetBytes(resp.Body, "errors.0")
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Code:       strings.TrimPrefix(first.Get("error_code").String(), errorCodePrefix),
		Message:    first.Get("error_message").String(),
	}
	if !first.Exists() {
		apiErr.Message = "unspecified API error"
	}
	return apiErr
}

// field returns the value at path, or *MalformedResponseError if absent.
func field(resp *Response, path string) (gjson.Result, error) {
	if !gjson.ValidBytes(resp.Body) {
		return gjson.Result{}, &MalformedResponseError{StatusCode: resp.StatusCode}
	}
	value := gjson.GetBytes(resp.Body, path)
	if !value.Exists() {
		return gjson.Result{}, &MalformedResponseError{StatusCode: resp.StatusCode, Field: path}
	}
	return value, nil
}

// decodeField decodes the value at path into T.
func decodeField[T any](resp *Response, path string) (T, error) {
	var out T
	value, err := field(resp, path)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal([]byte(value.Raw), &out); err != nil {
		return out, &MalformedResponseError{StatusCode: resp.StatusCode, Field: path}
	}
	return out, nil
}

func dataList(resp *Response) ([]Record, error) {
	return decodeField[[]Record](resp, "data")
}

func firstData(resp *Response) (Record, error) {
	return decodeField[Record](resp, "data.0")
}

// envelope decodes the whole body as an object.
func envelope(resp *Response) (Record, error) {
	var out Record
	if err := json.Unmarshal(resp.Body, &out); err != nil || out == nil {
		return nil, &MalformedResponseError{StatusCode: resp.StatusCode}
	}
	return out, nil
}

package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

var errInvalidJSON = errors.New("invalid JSON response")

// payload unwraps the three response shapes the backend uses: a bare value,
// {data: ...} and {success, data, message}. success:false becomes an
// *APIError carrying the message.
func payload(body []byte) (gjson.Result, error) {
	if len(body) == 0 {
		return gjson.Result{}, nil
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, errInvalidJSON
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return root, nil
	}
	if success := root.Get("success"); success.Exists() && !success.Bool() {
		msg := root.Get("message").String()
		if msg == "" {
			msg = root.Get("error").String()
		}
		return gjson.Result{}, &APIError{Status: 200, Message: msg}
	}
	if data := root.Get("data"); data.Exists() {
		return data, nil
	}
	if root.Get("success").Exists() {
		// {success:true, message} without data
		return gjson.Result{}, nil
	}
	return root, nil
}

// DecodeList decodes a list response in any envelope shape. A null or absent
// payload is an empty list.
func DecodeList[T any](body []byte) ([]T, error) {
	p, err := payload(body)
	if err != nil {
		return nil, err
	}
	if !p.Exists() || p.Type == gjson.Null {
		return []T{}, nil
	}
	if !p.IsArray() {
		return nil, fmt.Errorf("failed to parse response: expected a list, got %s", p.Type)
	}
	out := make([]T, 0, len(p.Array()))
	if err := json.Unmarshal([]byte(p.Raw), &out); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return out, nil
}

// DecodeObject decodes a single record in any envelope shape. A null or
// absent payload is (nil, nil).
func DecodeObject[T any](body []byte) (*T, error) {
	p, err := payload(body)
	if err != nil {
		return nil, err
	}
	if !p.Exists() || p.Type == gjson.Null {
		return nil, nil
	}
	if p.IsArray() {
		// some lookups answer with a one-element list
		items := p.Array()
		if len(items) == 0 {
			return nil, nil
		}
		p = items[0]
	}
	var out T
	if err := json.Unmarshal([]byte(p.Raw), &out); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &out, nil
}

// SaveResult is the normalized answer to a write
type SaveResult struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// HasData reports whether the server echoed the saved record
func (r *SaveResult) HasData() bool {
	if r == nil || len(r.Data) == 0 {
		return false
	}
	v := gjson.ParseBytes(r.Data)
	return v.IsObject() && len(v.Map()) > 0
}

// decodeSave normalizes a write response
func decodeSave(body []byte) (*SaveResult, error) {
	p, err := payload(body)
	if err != nil {
		return nil, err
	}
	res := &SaveResult{Success: true}
	if gjson.ValidBytes(body) {
		res.Message = gjson.GetBytes(body, "message").String()
	}
	if p.Exists() && p.Type != gjson.Null {
		res.Data = json.RawMessage(p.Raw)
	}
	return res, nil
}

// listOrEmpty turns a 404 into an empty list
func listOrEmpty[T any](body []byte, err error) ([]T, error) {
	if errors.Is(err, ErrNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, err
	}
	return DecodeList[T](body)
}

// objectOrNil turns a 404 or an unsuccessful lookup into (nil, nil)
func objectOrNil[T any](body []byte, err error) (*T, error) {
	if err != nil {
		if IsAbsent(err) {
			return nil, nil
		}
		return nil, err
	}
	v, err := DecodeObject[T](body)
	if IsAbsent(err) {
		return nil, nil
	}
	return v, err
}

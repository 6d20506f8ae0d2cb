package api

import (
	"bytes"
	"encoding/json"
)

// Payload names the envelope field a response carries its data in. The API
// is not consistent: most lists use "data", services use "services",
// user endpoints use "user" or "users".
type Payload string

const (
	PayloadNone     Payload = ""
	PayloadData     Payload = "data"
	PayloadServices Payload = "services"
	PayloadService  Payload = "service"
	PayloadUser     Payload = "user"
	PayloadUsers    Payload = "users"
)

// envelope is the common response shape {success, message, <payload>, token}
type envelope struct {
	Success  *bool           `json:"success"`
	Message  string          `json:"message"`
	Error    string          `json:"error"`
	Token    string          `json:"token"`
	Data     json.RawMessage `json:"data"`
	Services json.RawMessage `json:"services"`
	Service  json.RawMessage `json:"service"`
	User     json.RawMessage `json:"user"`
	Users    json.RawMessage `json:"users"`
}

func (e *envelope) message() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

func (e *envelope) failed() bool {
	return e.Success != nil && !*e.Success
}

// payload returns the raw field for p, falling back to "data" so that a
// normalised API answers every endpoint the same way
func (e *envelope) payload(p Payload) json.RawMessage {
	var raw json.RawMessage
	switch p {
	case PayloadServices:
		raw = e.Services
	case PayloadService:
		raw = e.Service
	case PayloadUser:
		raw = e.User
	case PayloadUsers:
		raw = e.Users
	}
	if present(raw) {
		return raw
	}
	if present(e.Data) {
		return e.Data
	}
	return nil
}

func present(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// Ack is the result of a mutation whose body only matters for its message
type Ack struct {
	Message string
	Token   string
}

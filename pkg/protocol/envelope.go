// Package protocol defines the JSON envelopes exchanged between the driver
// and the target's execute endpoint.
package protocol

import (
	"encoding/json"
	"fmt"
)

// ProcedureDiscover runs the capability enumerator on the target.
const ProcedureDiscover = "discover"

// Error codes reported by the target.
const (
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeInvalidArgument   = "INVALID_ARGUMENT"
	CodeProcedureNotFound = "PROCEDURE_NOT_FOUND"
	CodeNamespaceNotFound = "NAMESPACE_NOT_FOUND"
	CodeMemberNotFound    = "MEMBER_NOT_FOUND"
	CodeInvocationFailed  = "INVOCATION_FAILED"
	CodeInternalError     = "INTERNAL_ERROR"
)

// ExecuteRequest asks the target to run one of its procedures.
type ExecuteRequest struct {
	ID        string          `json:"id"`
	Procedure string          `json:"procedure"`
	Params    json.RawMessage `json:"params,omitempty"`
}

// CallParams are the params of every call.<category> procedure.
type CallParams struct {
	Namespace string `json:"namespace,omitempty"`
	Member    string `json:"member"`
	Args      []any  `json:"args"`
}

// Envelope is the raw response to an ExecuteRequest. The actual result of a
// procedure is always nested under value.
type Envelope struct {
	ID    string          `json:"id"`
	Ok    bool            `json:"ok"`
	Value json.RawMessage `json:"value,omitempty"`
	Error *ErrorDetail    `json:"error,omitempty"`
}

// ErrorDetail holds structured error information.
type ErrorDetail struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
	Retryable bool        `json:"retryable"`
}

// NewRequest builds an ExecuteRequest, encoding params when non-nil.
func NewRequest(id, procedure string, params interface{}) (*ExecuteRequest, error) {
	req := &ExecuteRequest{ID: id, Procedure: procedure}
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("protocol:envelope - failed to encode %s params: %w", procedure, err)
		}
		req.Params = data
	}
	return req, nil
}

// Unwrap returns the raw result value, or a *RemoteError when the target
// reported a failure. A successful envelope without a value unwraps to JSON
// null.
func (e *Envelope) Unwrap() (json.RawMessage, error) {
	if e == nil {
		return nil, &RemoteError{Code: CodeInternalError, Message: "empty response envelope"}
	}
	if !e.Ok {
		if e.Error == nil {
			return nil, &RemoteError{Code: CodeInternalError, Message: "request failed without error detail"}
		}
		return nil, &RemoteError{Code: e.Error.Code, Message: e.Error.Message, Details: e.Error.Details, Retryable: e.Error.Retryable}
	}
	if len(e.Value) == 0 {
		return json.RawMessage("null"), nil
	}
	return e.Value, nil
}

// Success builds an ok envelope around an already-computed value.
func Success(id string, value interface{}) *Envelope {
	data, err := json.Marshal(value)
	if err != nil {
		return Failure(id, CodeInternalError, fmt.Sprintf("result is not serializable: %v", err), false)
	}
	return &Envelope{ID: id, Ok: true, Value: data}
}

// Failure builds an error envelope.
func Failure(id, code, message string, retryable bool) *Envelope {
	return &Envelope{
		ID: id,
		Ok: false,
		Error: &ErrorDetail{
			Code:      code,
			Message:   message,
			Retryable: retryable,
		},
	}
}

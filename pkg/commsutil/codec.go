package commsutil

import "encoding/json"

// EncodePayload is the wire encoding for every bridge message. Values that
// cannot cross the process boundary (funcs, channels) fail here.
func EncodePayload(v any) ([]byte, error) {
	return json.Marshal(v)
}

// DecodePayload decodes a bridge message into v. An empty payload is an
// error rather than a zero value.
func DecodePayload(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

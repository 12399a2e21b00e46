package commsutil

import (
	"testing"
)

func TestEncodePayload(t *testing.T) {
	tests := []struct {
		name    string
		input   interface{}
		want    string
		wantErr bool
	}{
		{
			name:  "command mapping",
			input: map[string]string{"showMessageBox": "electron.dialog.showMessageBox"},
			want:  `{"showMessageBox":"electron.dialog.showMessageBox"}`,
		},
		{
			name:  "argument list",
			input: []interface{}{"hi", 1, false, nil},
			want:  `["hi",1,false,null]`,
		},
		{
			name:  "nil",
			input: nil,
			want:  "null",
		},
		{
			name:    "functions are not serializable",
			input:   func() {},
			wantErr: true,
		},
		{
			name:    "channel is not serializable",
			input:   make(chan int),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := EncodePayload(tt.input)

			if tt.wantErr {
				if err == nil {
					t.Fatal("commsutil:codec_test - expected error but got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("commsutil:codec_test - unexpected error: %v", err)
			}

			got := string(data)
			if got != tt.want {
				t.Errorf("commsutil:codec_test - EncodePayload() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodePayload_Invalid(t *testing.T) {
	for _, data := range []string{`{invalid}`, ""} {
		var out map[string]string
		if err := DecodePayload([]byte(data), &out); err == nil {
			t.Errorf("commsutil:codec_test - expected error decoding %q", data)
		}
	}
}

func TestDecodePayload_CallParamsShape(t *testing.T) {
	type callParams struct {
		Namespace string        `json:"namespace"`
		Member    string        `json:"member"`
		Args      []interface{} `json:"args"`
	}

	var decoded callParams
	err := DecodePayload([]byte(`{"namespace":"dialog","member":"showMessageBox","args":["hi",2,true]}`), &decoded)
	if err != nil {
		t.Fatalf("commsutil:codec_test - decode failed: %v", err)
	}
	if decoded.Namespace != "dialog" || decoded.Member != "showMessageBox" {
		t.Errorf("commsutil:codec_test - got %s.%s, want dialog.showMessageBox", decoded.Namespace, decoded.Member)
	}
	if len(decoded.Args) != 3 {
		t.Fatalf("commsutil:codec_test - Args length = %d, want 3", len(decoded.Args))
	}
	if decoded.Args[0] != "hi" || decoded.Args[1] != float64(2) || decoded.Args[2] != true {
		t.Errorf("commsutil:codec_test - Args = %v, want [hi 2 true]", decoded.Args)
	}
}

package commsutil

import "testing"

func TestBuildExecuteSubject(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"simple", "app", "bridge.app.execute"},
		{"dotted name", "my.app", "bridge.my_app.execute"},
		{"wildcards", "a*b>c", "bridge.a_b_c.execute"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildExecuteSubject(tt.target)
			if got != tt.want {
				t.Errorf("BuildExecuteSubject(%q) = %q, want %q", tt.target, got, tt.want)
			}
		})
	}
}

func TestBuildDiscoveredSubject(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"basic", "app", "bridge.discovered.app"},
		{"spaces", "demo app", "bridge.discovered.demo_app"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildDiscoveredSubject(tt.target)
			if got != tt.want {
				t.Errorf("BuildDiscoveredSubject(%q) = %q, want %q", tt.target, got, tt.want)
			}
		})
	}
}

func TestDefaultExecuteSubjectMatchesBuilder(t *testing.T) {
	if got := BuildExecuteSubject("app"); got != SubjectExecute {
		t.Errorf("BuildExecuteSubject(app) = %q, want %q", got, SubjectExecute)
	}
}

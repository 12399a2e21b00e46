package surface

import (
	"strings"
	"testing"
)

func TestCommandID(t *testing.T) {
	tests := []struct {
		c      Category
		ns     string
		member string
		want   string
	}{
		{Local, "dialog", "showMessageBox", "electron.dialog.showMessageBox"},
		{Remote, "app", "getName", "electron.remote.app.getName"},
		{Remote, "process", "cwd", "electron.remote.process.cwd"},
		{Window, "", "getTitle", "browserWindow.getTitle"},
		{Content, "", "getURL", "webContents.getURL"},
		{Process, "", "pid", "process.pid"},
	}
	for _, tt := range tests {
		if got := CommandID(tt.c, tt.ns, tt.member); got != tt.want {
			t.Errorf("surface:naming_test - CommandID(%v, %q, %q) = %q, want %q", tt.c, tt.ns, tt.member, got, tt.want)
		}
	}
}

func TestParseCommandID(t *testing.T) {
	tests := []struct {
		id   string
		want Descriptor
	}{
		{"electron.dialog.showMessageBox", Descriptor{Category: Local, Namespace: "dialog", Member: "showMessageBox"}},
		{"electron.remote.app.getName", Descriptor{Category: Remote, Namespace: "app", Member: "getName"}},
		{"electron.remote.process.cwd", Descriptor{Category: Remote, Namespace: "process", Member: "cwd"}},
		{"browserWindow.getTitle", Descriptor{Category: Window, Member: "getTitle"}},
		{"webContents.getURL", Descriptor{Category: Content, Member: "getURL"}},
		{"process.pid", Descriptor{Category: Process, Member: "pid"}},
	}
	for _, tt := range tests {
		got, err := ParseCommandID(tt.id)
		if err != nil {
			t.Errorf("surface:naming_test - ParseCommandID(%q) error: %v", tt.id, err)
			continue
		}
		if got != tt.want {
			t.Errorf("surface:naming_test - ParseCommandID(%q) = %+v, want %+v", tt.id, got, tt.want)
		}
		if got.CommandID() != tt.id {
			t.Errorf("surface:naming_test - round trip of %q gave %q", tt.id, got.CommandID())
		}
	}
}

func TestParseCommandID_Invalid(t *testing.T) {
	for _, id := range []string{"", "electron", "electron.dialog", "electron.remote", "browserWindow", "unknown.member", "electron..x"} {
		if _, err := ParseCommandID(id); err == nil {
			t.Errorf("surface:naming_test - ParseCommandID(%q) should fail", id)
		}
	}
}

// No identifier of one category may be mistaken for another's.
func TestPrefixesDisjoint(t *testing.T) {
	for _, a := range Categories {
		for _, b := range Categories {
			if a == b {
				continue
			}
			if a == Local && b == Remote {
				continue
			}
			if strings.HasPrefix(b.Prefix()+".", a.Prefix()+".") {
				t.Errorf("surface:naming_test - prefix %q extends %q", b.Prefix(), a.Prefix())
			}
		}
	}
}

func TestCategoryProcedures(t *testing.T) {
	for _, c := range Categories {
		if !c.Valid() {
			t.Errorf("surface:naming_test - %v should be valid", c)
		}
		got, ok := CategoryForProcedure(c.Procedure())
		if !ok || got != c {
			t.Errorf("surface:naming_test - CategoryForProcedure(%q) = %v, %v", c.Procedure(), got, ok)
		}
	}
	if _, ok := CategoryForProcedure("call.unknown"); ok {
		t.Error("surface:naming_test - unknown procedure should not map to a category")
	}
	if Category(0).Valid() || Category(0).Procedure() != "" {
		t.Error("surface:naming_test - zero category should be invalid")
	}
}

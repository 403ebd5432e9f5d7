package action

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		action  Action
		wantErr string
	}{
		{
			name:   "container create",
			action: Action{Name: "t1", Type: KindContainer, Action: OpCreate, Container: "leaf"},
		},
		{
			name:   "change control without action",
			action: Action{Name: "t2", Type: KindChangeControl},
		},
		{
			name:   "change control with create",
			action: Action{Name: "t3", Type: KindChangeControl, Action: OpCreate},
		},
		{
			name:    "unknown pair",
			action:  Action{Name: "t4", Type: KindContainer, Action: Op("rename")},
			wantErr: `unknown type/action pair "container"/"rename"`,
		},
		{
			name:    "unknown type",
			action:  Action{Name: "t5", Type: Kind("image"), Action: OpAdd},
			wantErr: "unknown type/action pair",
		},
		{
			name:    "container create without name",
			action:  Action{Name: "t6", Type: KindContainer, Action: OpCreate},
			wantErr: "missing container name",
		},
		{
			name:    "configlet add without file",
			action:  Action{Name: "t7", Type: KindConfiglet, Action: OpAdd},
			wantErr: "missing configlet file",
		},
		{
			name:    "attach without devices",
			action:  Action{Name: "t8", Type: KindContainer, Action: OpAttachDevice, Container: "leaf"},
			wantErr: "missing device list",
		},
		{
			name:    "add-devices without devices",
			action:  Action{Name: "t9", Type: KindConfiglet, Action: OpAddDevices, Configlet: "mgmt.conf"},
			wantErr: "missing device list",
		},
		{
			name:    "bad change control mode",
			action:  Action{Name: "t10", Type: KindChangeControl, Mode: "parallel"},
			wantErr: `unknown change control mode "parallel"`,
		},
		{
			name:   "incremental mode accepted",
			action: Action{Name: "t11", Type: KindChangeControl, Mode: ModeIncremental},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.action.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("expected no error, got: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got: %v", tt.wantErr, err)
			}
			if !strings.Contains(err.Error(), tt.action.Name) {
				t.Errorf("expected error to name task %q, got: %v", tt.action.Name, err)
			}
		})
	}
}

func TestConfigletName(t *testing.T) {
	a := Action{Configlet: "/etc/cvp/configlets/mgmt.conf"}
	if got := a.ConfigletName(); got != "mgmt.conf" {
		t.Errorf("expected base name with extension, got: %q", got)
	}
}

func TestParentOrDefault(t *testing.T) {
	a := Action{Container: "leaf"}
	if got := a.ParentOrDefault(); got != DefaultParent {
		t.Errorf("expected default parent %q, got: %q", DefaultParent, got)
	}

	a.Parent = "DC-1"
	if got := a.ParentOrDefault(); got != "DC-1" {
		t.Errorf("expected explicit parent, got: %q", got)
	}
}

func TestLabel(t *testing.T) {
	named := Action{Name: "provision leafs", Type: KindContainer, Action: OpCreate}
	if got := named.Label(); got != "provision leafs" {
		t.Errorf("expected name as label, got: %q", got)
	}

	unnamed := Action{Type: KindConfiglet, Action: OpUpdate}
	if got := unnamed.Label(); got != "configlet update" {
		t.Errorf("expected type and action label, got: %q", got)
	}

	bare := Action{Type: KindChangeControl}
	if got := bare.Label(); got != "change-control" {
		t.Errorf("expected type label, got: %q", got)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	write := func(t *testing.T, name, content string) string {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write task file: %v", err)
		}
		return path
	}

	t.Run("valid file", func(t *testing.T) {
		path := write(t, "tasks.json", `[
			{"name": "create pod container", "type": "container", "action": "create", "container": "pod1"},
			{"name": "push mgmt config", "type": "configlet", "action": "update", "configlet": "configlets/mgmt.conf", "apply": true},
			{"name": "schedule window", "type": "change-control", "mode": "linear"}
		]`)

		actions, err := LoadFile(path)
		if err != nil {
			t.Fatalf("failed to load task file: %v", err)
		}
		if len(actions) != 3 {
			t.Fatalf("expected 3 actions, got: %d", len(actions))
		}
		if actions[0].Key() != (Key{KindContainer, OpCreate}) {
			t.Errorf("unexpected key for first action: %+v", actions[0].Key())
		}
		if !actions[1].Apply {
			t.Error("expected apply true on second action")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadFile(filepath.Join(dir, "absent.json")); err == nil {
			t.Error("expected error for missing file, got nil")
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		path := write(t, "broken.json", `{"not": "an array"}`)
		if _, err := LoadFile(path); err == nil {
			t.Error("expected error for malformed file, got nil")
		}
	})

	t.Run("empty array", func(t *testing.T) {
		path := write(t, "empty.json", `[]`)
		_, err := LoadFile(path)
		if err == nil || !strings.Contains(err.Error(), "contains no tasks") {
			t.Errorf("expected empty-file error, got: %v", err)
		}
	})

	t.Run("invalid entry reports index", func(t *testing.T) {
		path := write(t, "bad-entry.json", `[
			{"name": "ok", "type": "container", "action": "create", "container": "pod1"},
			{"name": "broken", "type": "container", "action": "explode", "container": "pod2"}
		]`)

		_, err := LoadFile(path)
		if err == nil {
			t.Fatal("expected error for invalid entry, got nil")
		}
		if !strings.Contains(err.Error(), "entry 1") {
			t.Errorf("expected error to name entry 1, got: %v", err)
		}
		if !strings.Contains(err.Error(), "unknown type/action pair") {
			t.Errorf("expected pair error, got: %v", err)
		}
	})
}

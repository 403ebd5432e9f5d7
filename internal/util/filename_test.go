package util

import "testing"

func TestSafeFileName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain name", "leaf1a", "leaf1a"},
		{"uppercase", "SYS-TelemetryBuilder", "sys-telemetrybuilder"},
		{"spaces and underscores", "mgmt ssh_v2", "mgmt-ssh-v2"},
		{"dotted name", "mgmt.conf", "mgmt-conf"},
		{"ip address suffix", "telemetry_172.16.0.5_1", "telemetry-172-16-0-5-1"},
		{"dropped characters", "leaf/1:a", "leaf1a"},
		{"collapsed hyphens", "a  __  b", "a-b"},
		{"only separators", "___", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SafeFileName(tt.in); got != tt.want {
				t.Errorf("SafeFileName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

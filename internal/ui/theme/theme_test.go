package theme

import "testing"

func TestApply(t *testing.T) {
	defer Apply("dark", true)

	tests := []struct {
		setting string
		isDark  bool
		want    string
	}{
		{"light", true, "light"},
		{"dark", false, "dark"},
		{"system", true, "dark"},
		{"system", false, "light"},
	}
	for _, tt := range tests {
		Apply(tt.setting, tt.isDark)
		if Current() != tt.want {
			t.Errorf("Apply(%q, %v) -> %s, want %s", tt.setting, tt.isDark, Current(), tt.want)
		}
	}

	Apply("light", false)
	if Primary != Light.Primary || Text != Light.Text {
		t.Error("light palette not installed")
	}
}

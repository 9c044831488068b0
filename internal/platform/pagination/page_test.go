package pagination

import "testing"

func TestClampPageSize(t *testing.T) {
	t.Parallel()

	cfg := PageSizeConfig{Default: 10, Max: 50}
	tests := []struct {
		name  string
		value int
		want  int
	}{
		{name: "zero uses default", value: 0, want: 10},
		{name: "negative uses default", value: -3, want: 10},
		{name: "within bounds passes through", value: 25, want: 25},
		{name: "above max clamps", value: 500, want: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ClampPageSize(tt.value, cfg); got != tt.want {
				t.Fatalf("ClampPageSize(%d) = %d, want %d", tt.value, got, tt.want)
			}
		})
	}
}

func TestClampPageSizeWithoutConfig(t *testing.T) {
	t.Parallel()

	if got := ClampPageSize(0, PageSizeConfig{}); got != 1 {
		t.Fatalf("ClampPageSize(0) = %d, want 1", got)
	}
	if got := ClampPageSize(7, PageSizeConfig{}); got != 7 {
		t.Fatalf("ClampPageSize(7) = %d, want 7", got)
	}
}

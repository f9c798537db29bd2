package config

import "testing"

func TestNormalizePageSize(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		pageSize int
		want     int
	}{
		{"unset uses configured default", Config{DefaultPageSize: 25, MaxPageSize: 50}, 0, 25},
		{"negative uses configured default", Config{DefaultPageSize: 25, MaxPageSize: 50}, -3, 25},
		{"oversized capped at configured max", Config{DefaultPageSize: 25, MaxPageSize: 50}, 200, 50},
		{"in range passes through", Config{DefaultPageSize: 25, MaxPageSize: 50}, 7, 7},
		{"zero-value config falls back to package default", Config{}, 0, DefaultDefaultPageSize},
		{"zero-value config falls back to package max", Config{}, 5000, DefaultMaxPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.NormalizePageSize(tt.pageSize); got != tt.want {
				t.Errorf("NormalizePageSize(%d) = %d, want %d", tt.pageSize, got, tt.want)
			}
		})
	}
}

package cmd

import "testing"

func TestValidateDays(t *testing.T) {
	tests := []struct {
		name    string
		days    int
		wantErr bool
	}{
		{"zero", 0, false},
		{"positive", 7, false},
		{"negative", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateDays(tt.days)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateDays(%d) error = %v, wantErr %v", tt.days, err, tt.wantErr)
			}
		})
	}
}

package weather

import "testing"

func TestDescribeWeatherCode(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{code: 0, expected: "Cielo despejado"},
		{code: 61, expected: "Lluvia ligera"},
		{code: 95, expected: "Tormenta"},
		{code: 99, expected: "Tormenta con granizo intenso"},
		{code: 42, expected: "Condición desconocida"},
		{code: -1, expected: "Condición desconocida"},
	}

	for _, tc := range tests {
		if got := DescribeWeatherCode(tc.code); got != tc.expected {
			t.Errorf("DescribeWeatherCode(%d) = %q, want %q", tc.code, got, tc.expected)
		}
	}
}

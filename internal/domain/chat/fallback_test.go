package chat

import "testing"

func TestFallbackResponse(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{name: "weather keyword", content: "¿Cómo está el clima hoy?", expected: fallbackWeatherResponse},
		{name: "temperature keyword", content: "dime la TEMPERATURA en Sevilla", expected: fallbackWeatherResponse},
		{name: "rain keyword", content: "¿va a llover mañana?", expected: fallbackRainResponse},
		{name: "greeting keyword", content: "Hola, ¿qué tal?", expected: fallbackGreetingResponse},
		{name: "weather wins over greeting", content: "hola, ¿qué tiempo hace?", expected: fallbackWeatherResponse},
		{name: "rain wins over greeting", content: "buenos días, ¿hay lluvia?", expected: fallbackRainResponse},
		{name: "unrelated message", content: "cuéntame un chiste", expected: fallbackDefaultResponse},
		{name: "empty message", content: "", expected: fallbackDefaultResponse},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := FallbackResponse(tc.content); got != tc.expected {
				t.Errorf("FallbackResponse(%q) picked the wrong template", tc.content)
			}
		})
	}
}

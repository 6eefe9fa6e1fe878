package chat

import (
	"strings"

	"menloresearch/meteobot-server/internal/utils/functional"
)

const (
	fallbackWeatherResponse = "🌤️ Hola! Soy MeteoBot, tu asistente del clima. Me encantaría ayudarte con información meteorológica, pero temporalmente tengo limitaciones técnicas. \n\n¿Podrías ser más específico sobre qué ciudad te interesa? Mientras tanto, te recomiendo revisar el pronóstico local. ☀️"

	fallbackRainResponse = "🌧️ ¡Excelente pregunta sobre la lluvia! Como MeteoBot, normalmente consulto datos meteorológicos en tiempo real, pero ahora mismo tengo limitaciones técnicas. \n\nTe sugiero revisar apps como AccuWeather o Weather.com para información precisa sobre precipitaciones. 🌦️"

	fallbackGreetingResponse = "¡Hola! 👋 Soy MeteoBot, tu asistente especializado en clima y meteorología. \n\n¿En qué puedo ayudarte hoy? Puedes preguntarme sobre:\n• Temperatura actual\n• Pronóstico del tiempo\n• Condiciones climáticas\n• Recomendaciones según el clima ☀️🌧️❄️"

	fallbackDefaultResponse = "🤖 ¡Hola! Soy MeteoBot, especializado en información meteorológica. \n\nAunque temporalmente tengo limitaciones técnicas, estaré encantado de ayudarte con temas relacionados al clima cuando esté completamente operativo. \n\n¿Hay algo específico sobre el tiempo que te gustaría saber? 🌤️"
)

var (
	weatherKeywords  = []string{"clima", "tiempo", "temperatura"}
	rainKeywords     = []string{"lluvia", "llover"}
	greetingKeywords = []string{"hola", "buenos", "saludos"}
)

// FallbackResponse produces a deterministic assistant reply without calling
// any external service. Keyword groups are checked in order; the first match
// wins.
func FallbackResponse(content string) string {
	lowered := strings.ToLower(content)
	containsAny := func(keywords []string) bool {
		return functional.Any(keywords, func(kw string) bool {
			return strings.Contains(lowered, kw)
		})
	}

	switch {
	case containsAny(weatherKeywords):
		return fallbackWeatherResponse
	case containsAny(rainKeywords):
		return fallbackRainResponse
	case containsAny(greetingKeywords):
		return fallbackGreetingResponse
	default:
		return fallbackDefaultResponse
	}
}

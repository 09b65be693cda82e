package tool

import (
	"math/rand"

	"github.com/aether-ai/aether/pkg/types"
)

var weatherConditions = []string{"Sunny", "Cloudy", "Rainy", "Snowy"}

// syntheticWeather fabricates a plausible weather report. There is no real
// weather backend; the tool exists to exercise structured tool results.
func syntheticWeather(location string) types.WeatherResult {
	return types.WeatherResult{
		Location:    location,
		Temperature: rand.Intn(40) - 10,
		Condition:   weatherConditions[rand.Intn(len(weatherConditions))],
		Humidity:    rand.Intn(100),
	}
}

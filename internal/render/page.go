package render

import (
	"html/template"
	"io"

	"golang.org/x/text/language"

	"github.com/azmataliakbar/weather-app/internal/weather"
)

// View is everything the page needs. It carries no behavior.
type View struct {
	City     string
	Current  *weather.CurrentConditions
	Forecast weather.Forecast
	Error    string
	Locale   language.Tag
}

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"temp":      FormatTemperature,
	"timestamp": FormatTimestamp,
}).Parse(pageHTML))

// Page writes the full HTML page for v.
func Page(w io.Writer, v View) error {
	return pageTemplate.Execute(w, v)
}

const pageHTML = `<!DOCTYPE html>
<html lang="{{.Locale}}">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Weather App</title>
</head>
<body>
<main class="weather-app">
<h1>Weather App</h1>
<form method="post" action="/search" class="search">
<input type="text" name="city" placeholder="Find your city" value="{{.City}}">
<button type="submit">Search</button>
</form>
{{- if .Error}}
<div class="error" role="alert">{{.Error}}</div>
{{- else}}
{{- with .Current}}
<section class="current">
<h2 class="location">{{.Location}}</h2>
<p class="temperature">Temperature {{temp .TemperatureC}}°{{.Unit}}</p>
<p class="description">{{.Description}}</p>
</section>
{{- end}}
{{- if .Forecast}}
<section class="forecast">
<h3>5-Day Forecast</h3>
<ul>
{{- range .Forecast}}
<li class="forecast-step"><span class="when">{{timestamp .Timestamp $.Locale}}</span> <span class="temperature">{{temp .TemperatureC}}°C</span> <span class="description">{{.Description}}</span></li>
{{- end}}
</ul>
</section>
{{- end}}
{{- end}}
</main>
</body>
</html>
`

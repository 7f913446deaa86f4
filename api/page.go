package api

import (
	"html/template"
	"net/http"

	"go.uber.org/zap"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="it">
<head>
<meta charset="utf-8">
<title>Meteo città</title>
<style>
body { font-family: sans-serif; margin: 2em; }
#output { padding: 1em; margin-top: 1em; border-radius: 4px; }
</style>
</head>
<body>
<h1>Meteo città</h1>
<form method="get" action="/">
<input type="text" name="city" value="{{.Query}}" placeholder="Città" autofocus>
<button type="submit"{{if not .Enabled}} disabled{{end}}>Cerca</button>
</form>
<div id="output" style="background: {{.Tone}}">{{.Text}}</div>
</body>
</html>
`))

type pageData struct {
	Query   string
	Text    string
	Tone    template.CSS
	Enabled bool
}

// handlePage renders the search page. With a city parameter it runs a lookup first.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	query, submitted := r.URL.Query()["city"]
	if submitted {
		_, err := s.flow.Submit(r.Context(), query[0])
		s.logOutcome(r, query[0], err)
	}

	display := s.display.Snapshot()
	data := pageData{
		Text:    display.Text,
		Tone:    template.CSS(display.Tone),
		Enabled: display.Enabled,
	}
	if submitted {
		data.Query = query[0]
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		s.logger.Error("failed to render page", zap.Error(err))
	}
}

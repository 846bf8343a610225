package render

import (
	"html/template"
	"io"

	"github.com/danpilch/platformboard/internal/board"
	"github.com/danpilch/platformboard/internal/departures"
)

// PageData feeds the server rendered board page.
type PageData struct {
	Query   string
	Result  *board.Result
	Message string
}

// Groups returns the visible groups of a successful result.
func (p PageData) Groups() []departures.PlatformGroup {
	if p.Result == nil || p.Result.State != board.Success {
		return nil
	}
	return p.Result.Visible()
}

var pageTemplate = template.Must(template.New("page").Parse(pageHTML))

// Page renders the search form and, when present, a lookup result.
func Page(w io.Writer, data PageData) error {
	return pageTemplate.Execute(w, data)
}

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Live Departures</title>
<style>
body { font-family: sans-serif; background: #fef2f2; display: flex; flex-direction: column; align-items: center; padding: 2.5rem 1rem; }
form { display: flex; flex-direction: column; gap: 1rem; width: 100%; max-width: 28rem; background: #fff; padding: 1.5rem; border-radius: 4px; }
.error { color: #dc2626; margin-top: 1rem; }
.platform-board { background: #0f172a; color: #fff; padding: 1rem 2rem; margin-top: 1.5rem; border-radius: 4px; }
.platform { color: #ffe600; font-weight: bold; font-size: 1.2rem; margin: 1rem 0 0.5rem; }
.departures-table td, .departures-table th { padding: 0.25rem 1rem 0.25rem 0; text-align: left; }
</style>
</head>
<body>
<h1>Live Departures</h1>
<form method="get" action="/">
  <input id="station-name" name="station" type="text" list="station-suggestions"
         placeholder="Enter station name or code (e.g. EUS)" value="{{.Query}}" autocomplete="off" required>
  <datalist id="station-suggestions"></datalist>
  <button type="submit">Get Next 3 Departures</button>
</form>
{{with .Message}}<div class="error">{{.}}</div>{{end}}
{{with .Groups}}
<div class="platform-board">
  <h2>Departures</h2>
  {{range .}}
  <div class="platform">Platform {{.Platform}}</div>
  <table class="departures-table">
    <thead><tr><th>Time</th><th>Destination</th><th>Status</th></tr></thead>
    <tbody>
    {{range .Departures}}<tr><td>{{.Time}}</td><td>{{.Destination}}</td><td class="status">{{.Status}}</td></tr>
    {{end}}
    </tbody>
  </table>
  {{end}}
</div>
{{end}}
<script>
const input = document.getElementById("station-name");
const list = document.getElementById("station-suggestions");
input.addEventListener("input", async () => {
  const q = input.value;
  if (q.length === 0) {
    list.replaceChildren();
    return;
  }
  const res = await fetch("/api/stations?q=" + encodeURIComponent(q));
  if (!res.ok) return;
  const matches = await res.json();
  // Drop responses for a query the user has already typed past.
  if (q !== input.value) return;
  list.replaceChildren(...matches.map((s) => {
    const opt = document.createElement("option");
    opt.value = s.crsCode;
    opt.label = s.stationName;
    return opt;
  }));
});</script>
</body>
</html>
`

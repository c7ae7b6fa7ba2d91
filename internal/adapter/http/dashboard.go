package http

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"

	"github.com/couchcryptid/road-accident-dashboard/internal/aggregate"
	"github.com/couchcryptid/road-accident-dashboard/internal/charts"
	"github.com/couchcryptid/road-accident-dashboard/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

// sectionView is one section of the JSON summary.
type sectionView struct {
	Section aggregate.Section `json:"section"`
	Title   string            `json:"title"`
	Rows    aggregate.Table   `json:"rows,omitempty"`
	Error   string            `json:"error,omitempty"`
}

type summaryView struct {
	Records  int           `json:"records"`
	Sections []sectionView `json:"sections"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, aggregate.Sections); err != nil {
		s.logger.Error("render dashboard", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes()) //nolint:errcheck // client may have gone away
}

// handleChart renders one section. A data error fails this chart only; the
// dashboard frames the others independently.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	sec, err := aggregate.ParseSection(r.PathValue("section"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	table, err := s.computeSection(r, sec)
	if err != nil {
		writeError(w, datasetStatus(err), err)
		return
	}

	var buf bytes.Buffer
	if err := charts.Render(&buf, sec, table); err != nil {
		s.logger.Error("render chart", "section", sec, "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes()) //nolint:errcheck // client may have gone away
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	ds, err := s.svc.Dataset.Get(r.Context())
	if err != nil {
		writeError(w, datasetStatus(err), err)
		return
	}

	sum := aggregate.Aggregate(ds)
	view := summaryView{Records: ds.Len()}
	for _, sec := range aggregate.Sections {
		sv := sectionView{Section: sec, Title: sec.Title()}
		table, err := sum.Table(sec)
		if err != nil {
			s.recordSectionError(sec, err)
			sv.Error = err.Error()
		} else {
			sv.Rows = table
		}
		view.Sections = append(view.Sections, sv)
	}
	sharedobs.WriteJSON(w, http.StatusOK, view)
}

func (s *Server) handleSection(w http.ResponseWriter, r *http.Request) {
	sec, err := aggregate.ParseSection(r.PathValue("section"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	table, err := s.computeSection(r, sec)
	if err != nil {
		writeError(w, datasetStatus(err), err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, sectionView{Section: sec, Title: sec.Title(), Rows: table})
}

func (s *Server) computeSection(r *http.Request, sec aggregate.Section) (aggregate.Table, error) {
	ds, err := s.svc.Dataset.Get(r.Context())
	if err != nil {
		return nil, err
	}
	table, err := aggregate.Compute(sec, ds)
	if err != nil {
		s.recordSectionError(sec, err)
		return nil, err
	}
	return table, nil
}

func (s *Server) recordSectionError(sec aggregate.Section, err error) {
	s.svc.Metrics.SectionErrors.WithLabelValues(string(sec)).Inc()
	s.logger.Warn("summary section failed", "section", sec, "error", err)
}

// datasetStatus maps a dataset failure to a response code: malformed data is
// unprocessable, anything else means the dataset could not be read.
func datasetStatus(err error) int {
	var de *domain.DataError
	if errors.As(err, &de) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusServiceUnavailable
}

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Road Accident Dashboard</title>
<style>
body { font-family: sans-serif; margin: 0 2rem; }
.grid { display: grid; grid-template-columns: 1fr 1fr; gap: 1rem; }
iframe { width: 100%; height: 520px; border: 1px solid #ddd; }
#alert-form label { display: block; margin: .5rem 0; }
#result { white-space: pre-line; margin-top: 1rem; }
</style>
</head>
<body>
<h1>Road Accident Dashboard</h1>
<div class="grid">
{{- range .}}
<section>
<h2>{{.Title}}</h2>
<iframe src="/charts/{{.}}" title="{{.Title}}"></iframe>
</section>
{{- end}}
</div>

<h2>Driver Alert</h2>
<form id="alert-form">
<label>Speed (km/h) <input type="number" name="speed" min="0" step="any" value="0" required></label>
<label>Have you consumed alcohol?
<select name="alcohol"><option value="no">No</option><option value="yes">Yes</option></select>
</label>
<div id="captcha" hidden>
<p>Type this code to confirm you are alert: <strong id="captcha-key"></strong></p>
<input id="captcha-answer" autocomplete="off">
<button type="button" id="captcha-verify">Verify</button>
<p id="captcha-result"></p>
</div>
<button type="submit">Trigger Alert</button>
</form>
<p id="result"></p>

<script>
const form = document.getElementById("alert-form");
const post = (url, body) => fetch(url, {
  method: "POST",
  headers: {"Content-Type": "application/json"},
  body: JSON.stringify(body || {}),
}).then(r => r.json());

async function showCaptcha() {
  const res = await post("/api/captcha");
  document.getElementById("captcha-key").textContent = res.key;
  document.getElementById("captcha-answer").value = "";
  document.getElementById("captcha-result").textContent = "";
  document.getElementById("captcha").hidden = false;
}

form.alcohol.addEventListener("change", () => {
  if (form.alcohol.value === "no") {
    showCaptcha();
  } else {
    document.getElementById("captcha").hidden = true;
  }
});

document.getElementById("captcha-verify").addEventListener("click", async () => {
  const answer = document.getElementById("captcha-answer").value;
  const res = await post("/api/captcha/verify", {answer});
  document.getElementById("captcha-result").textContent = res.message;
});

form.addEventListener("submit", async (ev) => {
  ev.preventDefault();
  const res = await post("/api/alerts", {
    speed: Number(form.speed.value),
    alcohol: form.alcohol.value === "yes",
  });
  document.getElementById("result").textContent = res.message || res.error;
  if (form.alcohol.value === "no") {
    showCaptcha();
  }
});

showCaptcha();
</script>
</body>
</html>
`))

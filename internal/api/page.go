// Copyright (c) 2026 CivicLedger. All rights reserved.
// Author: mohan.sharma.dev@gmail.com

package api

import (
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/mohansharma/civicledger/internal/plantation"
)

// # Dashboard Page

// chartPage is the self-contained dashboard page. The monthly series is
// embedded server-side so the page renders without a second round trip;
// the records table below it queries the API per selected date.
var chartPage = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Plantation Dashboard</title>
<style>
  body { font-family: system-ui, sans-serif; margin: 2rem auto; max-width: 860px; color: #1c2b22; }
  h1 { font-size: 1.4rem; }
  canvas { width: 100%; border: 1px solid #cfd8d2; border-radius: 6px; }
  .controls { margin: 1.5rem 0 0.5rem; }
  table { border-collapse: collapse; width: 100%; margin-top: 0.5rem; }
  th, td { border: 1px solid #cfd8d2; padding: 0.4rem 0.7rem; text-align: left; }
  .legend span { margin-right: 1.2rem; }
  .dot { display: inline-block; width: 0.7em; height: 0.7em; border-radius: 50%; margin-right: 0.3em; }
</style>
</head>
<body>
<h1>Plantation Dashboard</h1>
<p class="legend">
  <span><i class="dot" style="background:#2e7d32"></i>Planted</span>
  <span><i class="dot" style="background:#c62828"></i>Cut</span>
</p>
<canvas id="chart" width="820" height="320"></canvas>

<div class="controls">
  <label for="day">Records for date:</label>
  <input type="date" id="day">
  <button id="load">Load</button>
</div>
<div id="result"></div>

<script>
const monthly = {{.MonthlySeries}};

function drawChart() {
  const canvas = document.getElementById("chart");
  const ctx = canvas.getContext("2d");
  const pad = 40;
  const w = canvas.width - pad * 2;
  const h = canvas.height - pad * 2;

  ctx.clearRect(0, 0, canvas.width, canvas.height);
  if (monthly.length === 0) {
    ctx.fillText("No data loaded", pad, pad);
    return;
  }

  const max = Math.max(1, ...monthly.map(m => Math.max(m.planted, m.cut)));
  const x = i => pad + (monthly.length === 1 ? w / 2 : i * w / (monthly.length - 1));
  const y = v => pad + h - (v / max) * h;

  ctx.strokeStyle = "#90a4ae";
  ctx.strokeRect(pad, pad, w, h);

  const series = [["planted", "#2e7d32"], ["cut", "#c62828"]];
  for (const [key, color] of series) {
    ctx.beginPath();
    ctx.strokeStyle = color;
    ctx.lineWidth = 2;
    monthly.forEach((m, i) => i === 0 ? ctx.moveTo(x(i), y(m[key])) : ctx.lineTo(x(i), y(m[key])));
    ctx.stroke();
    ctx.fillStyle = color;
    monthly.forEach((m, i) => { ctx.beginPath(); ctx.arc(x(i), y(m[key]), 3, 0, 7); ctx.fill(); });
  }

  ctx.fillStyle = "#455a64";
  monthly.forEach((m, i) => ctx.fillText(m.month, x(i) - 18, canvas.height - 12));
  ctx.fillText(String(max), 6, pad + 4);
  ctx.fillText("0", 6, pad + h);
}

async function loadRecords() {
  const day = document.getElementById("day").value;
  const result = document.getElementById("result");
  if (!day) { result.textContent = "Pick a date first."; return; }

  const resp = await fetch("/api/v1/plantation/records?date=" + encodeURIComponent(day));
  const body = await resp.json();
  if (!resp.ok) { result.textContent = body.error || "request failed"; return; }

  const d = body.data;
  let html = "<p>" + d.summary.count + " record(s), planted " + d.summary.total_planted +
             ", cut " + d.summary.total_cut + "</p>";
  if (d.records.length > 0) {
    html += "<table><tr><th>Date</th><th>Planted</th><th>Cut</th></tr>";
    for (const r of d.records) {
      html += "<tr><td>" + r.date + "</td><td>" + r.planted + "</td><td>" + r.cut + "</td></tr>";
    }
    html += "</table>";
  }
  result.innerHTML = html;
}

document.getElementById("load").addEventListener("click", loadRecords);
drawChart();
</script>
</body>
</html>
`))

type pageData struct {
	MonthlySeries template.JS
}

// NewHomeHandler renders the chart page with the monthly series baked in.
func NewHomeHandler(monthly []plantation.MonthlyTotal) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		series, err := json.Marshal(monthly)
		if err != nil {
			http.Error(writer, "failed to encode series", http.StatusInternalServerError)
			return
		}

		writer.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = chartPage.Execute(writer, pageData{MonthlySeries: template.JS(series)})
	}
}

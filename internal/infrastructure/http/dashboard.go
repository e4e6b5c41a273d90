package httpserver

import (
	"fmt"
	"html/template"
	"net/http"
	"time"

	"go.uber.org/zap"

	"pricequote-service/internal/infrastructure/logx"
)

type dashboardRow struct {
	RequestID       string
	ReceivedAt      string
	Symbol          string
	Outcome         string
	Price           string
	UpstreamStatus  int
	UpstreamLatency int64
	TotalLatency    int64
	ClientIP        string
}

type dashboardView struct {
	TotalRequests    int64
	SuccessRate      string
	AverageLatencyMs string
	TopSymbols       []struct {
		Symbol string
		Count  int64
	}
	RecentLogs []dashboardRow
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	snap, err := s.svc.Snapshot(r.Context())
	if err != nil {
		logx.L().Error("snapshot failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load analytics")
		return
	}

	view := dashboardView{
		TotalRequests:    snap.TotalRequests,
		SuccessRate:      fmt.Sprintf("%.1f", snap.SuccessRatePercent),
		AverageLatencyMs: fmt.Sprintf("%.1f", snap.AverageLatencyMs),
	}
	for _, ts := range snap.TopSymbols {
		view.TopSymbols = append(view.TopSymbols, struct {
			Symbol string
			Count  int64
		}{ts.Symbol, ts.Count})
	}
	for _, rec := range snap.RecentLogs {
		row := dashboardRow{
			RequestID:       rec.RequestID,
			ReceivedAt:      rec.ReceivedAt.UTC().Format(time.RFC3339),
			Symbol:          rec.Symbol,
			Outcome:         "OK",
			UpstreamStatus:  rec.UpstreamStatus,
			UpstreamLatency: rec.UpstreamLatencyMs,
			TotalLatency:    rec.TotalLatencyMs,
			ClientIP:        rec.ClientIP,
		}
		if rec.Success {
			if rec.Price != nil {
				row.Price = rec.Price.String()
			}
		} else {
			row.Outcome = rec.ErrorMessage
		}
		view.RecentLogs = append(view.RecentLogs, row)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := dashboardTmpl.Execute(w, view); err != nil {
		logx.L().Error("dashboard render failed", zap.Error(err))
	}
}

var dashboardTmpl = template.Must(template.New("dashboard").Parse(dashboardHTML))

const dashboardHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8" />
  <title>Price Quote Operations Dashboard</title>
  <style>
    body { font-family: sans-serif; margin: 2rem; color: #222; }
    h1 { margin-bottom: 0.25rem; }
    .cards { display: flex; gap: 1.5rem; margin: 1rem 0 2rem; }
    .card { border: 1px solid #ddd; border-radius: 6px; padding: 1rem 1.5rem; min-width: 10rem; }
    .card .value { font-size: 1.6rem; font-weight: bold; }
    table { border-collapse: collapse; width: 100%; margin-bottom: 2rem; }
    th, td { border: 1px solid #ddd; padding: 0.4rem 0.6rem; text-align: left; font-size: 0.9rem; }
    th { background: #f5f5f5; }
  </style>
</head>
<body>
  <h1>Price Quote Operations</h1>

  <div class="cards">
    <div class="card"><div>Total requests</div><div class="value">{{.TotalRequests}}</div></div>
    <div class="card"><div>Success rate</div><div class="value">{{.SuccessRate}}%</div></div>
    <div class="card"><div>Avg latency</div><div class="value">{{.AverageLatencyMs}} ms</div></div>
  </div>

  <h2>Top symbols</h2>
  <table>
    <tr><th>Symbol</th><th>Requests</th></tr>
    {{range .TopSymbols}}<tr><td>{{.Symbol}}</td><td>{{.Count}}</td></tr>
    {{else}}<tr><td colspan="2">No requests yet</td></tr>{{end}}
  </table>

  <h2>Recent requests</h2>
  <table>
    <tr>
      <th>Received</th><th>Symbol</th><th>Outcome</th><th>Price</th>
      <th>Upstream status</th><th>Upstream ms</th><th>Total ms</th><th>Client IP</th>
    </tr>
    {{range .RecentLogs}}<tr>
      <td>{{.ReceivedAt}}</td><td>{{.Symbol}}</td><td>{{.Outcome}}</td><td>{{.Price}}</td>
      <td>{{.UpstreamStatus}}</td><td>{{.UpstreamLatency}}</td><td>{{.TotalLatency}}</td><td>{{.ClientIP}}</td>
    </tr>{{else}}<tr><td colspan="8">No requests yet</td></tr>{{end}}
  </table>
</body>
</html>`

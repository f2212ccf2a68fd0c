package alerting

const digestHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Earnings alerts {{.ScanDay.Format "2006-01-02"}}</title>
  <style>
    body {
      margin: 0;
      padding: 24px;
      background-color: #f3f4f6;
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
      color: #111827;
      line-height: 1.5;
    }

    .container {
      max-width: 640px;
      margin: 0 auto;
      background: #ffffff;
      border-radius: 8px;
      border: 1px solid #e5e7eb;
      overflow: hidden;
    }

    .header {
      padding: 20px 24px;
      background: linear-gradient(135deg, #1f2937 0%, #374151 100%);
      color: #ffffff;
    }

    .headline {
      font-size: 20px;
      font-weight: 700;
      letter-spacing: 0.02em;
    }

    .subline {
      font-size: 14px;
      opacity: 0.85;
      margin-top: 4px;
    }

    .section {
      padding: 16px 24px;
    }

    table {
      width: 100%;
      border-collapse: collapse;
      font-size: 14px;
    }

    th {
      text-align: left;
      font-size: 11px;
      font-weight: 700;
      color: #6b7280;
      text-transform: uppercase;
      letter-spacing: 0.08em;
      padding: 8px 12px 8px 0;
      border-bottom: 1px solid #e5e7eb;
    }

    td {
      padding: 10px 12px 10px 0;
      border-bottom: 1px solid #f3f4f6;
      vertical-align: top;
    }

    .ticker {
      font-weight: 700;
      letter-spacing: 0.04em;
    }

    .company {
      font-size: 12px;
      font-weight: 400;
      color: #6b7280;
    }

    .due-today {
      color: #dc2626;
      font-weight: 600;
    }

    .footer {
      padding: 12px 24px;
      font-size: 12px;
      color: #9ca3af;
      border-top: 1px solid #f3f4f6;
    }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <div class="headline">Earnings alerts</div>
      <div class="subline">{{.ScanDay.Format "Monday, 02 Jan 2006"}} &middot; {{len .Alerts}} due</div>
    </div>
    <div class="section">
      <table>
        <tr>
          <th>Ticker</th>
          <th>Reports</th>
          <th>Session</th>
          <th>Lead</th>
          <th>Position</th>
        </tr>
        {{range .Alerts}}
        <tr>
          <td class="ticker">{{.Report.Ticker}}{{with .Report.CompanyName}}<div class="company">{{.}}</div>{{end}}</td>
          <td>{{.Report.DateKey}}{{with .Report.TimeOfDay}} ({{.}}){{end}}</td>
          <td>{{.Report.Session}}</td>
          <td>{{if eq .DaysUntilReport 0}}<span class="due-today">today</span>{{else}}{{.DaysUntilReport}}d{{end}}</td>
          <td>{{holding .Holding}}</td>
        </tr>
        {{end}}
      </table>
    </div>
    <div class="footer">Sent by earnwatcher &middot; last tradable day before each report</div>
  </div>
</body>
</html>`

package notify

const emailHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>{{.Ticker}} – {{.Filing.FilerName}}</title>
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
      background: linear-gradient(135deg, #1f2e46 0%, #37393b 100%);
      color: #ffffff;
    }

    .ticker {
      font-size: 24px;
      font-weight: 700;
      letter-spacing: 0.05em;
      margin-bottom: 4px;
    }

    .title {
      font-size: 15px;
      opacity: 0.9;
    }

    .section {
      padding: 16px 24px;
      border-top: 1px solid #f3f4f6;
    }

    .section-title {
      font-size: 11px;
      font-weight: 700;
      color: #6b7280;
      text-transform: uppercase;
      letter-spacing: 0.1em;
      margin-bottom: 12px;
    }

    .meta-grid {
      display: table;
      width: 100%;
      font-size: 14px;
    }

    .meta-row {
      display: table-row;
    }

    .meta-label {
      display: table-cell;
      padding: 4px 12px 4px 0;
      color: #6b7280;
      white-space: nowrap;
    }

    .meta-value {
      display: table-cell;
      padding: 4px 0;
    }

    .report {
      font-size: 14px;
      white-space: pre-wrap;
      word-break: break-word;
    }

    .footer {
      padding: 14px 24px;
      background: #f9fafb;
      font-size: 12px;
      color: #9ca3af;
    }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <div class="ticker">{{.Ticker}}</div>
      <div class="title">{{.Filing.FilerName}}</div>
    </div>

    <div class="section">
      <div class="section-title">Filing</div>
      <div class="meta-grid">
        <div class="meta-row">
          <div class="meta-label">Document</div>
          <div class="meta-value">{{.Filing.DocDescription}}</div>
        </div>
        <div class="meta-row">
          <div class="meta-label">DocID</div>
          <div class="meta-value">{{.Filing.DocID}}</div>
        </div>
        <div class="meta-row">
          <div class="meta-label">Type Code</div>
          <div class="meta-value">{{.Filing.DocTypeCode}}</div>
        </div>
        <div class="meta-row">
          <div class="meta-label">Submitted</div>
          <div class="meta-value">{{.Filing.SubmitDateTime}}</div>
        </div>
        {{if gt .PageCount 0}}
        <div class="meta-row">
          <div class="meta-label">Pages</div>
          <div class="meta-value">{{.PageCount}}</div>
        </div>
        {{end}}
      </div>
    </div>

    <div class="section">
      <div class="section-title">Analysis</div>
      <div class="report">{{.Report}}</div>
    </div>

    <div class="footer">
      Data source: EDINET API v2 · Analysis: Google Gemini
    </div>
  </div>
</body>
</html>
`

package export

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/bahikhata/bahikhata/internal/ledger"
)

// StatementPayload aggregates statement data destined for PDF
// rendering.
type StatementPayload struct {
	Title   string
	Entries []ledger.StatementEntry
	Summary ledger.AccountSummary
}

// PDFExporter wraps Gotenberg interactions for statement exports.
type PDFExporter struct {
	Endpoint string
	Client   *http.Client
}

var amountPrinter = message.NewPrinter(language.English)

// RenderStatement sends HTML content to Gotenberg and returns the PDF
// bytes.
func (p *PDFExporter) RenderStatement(ctx context.Context, payload StatementPayload) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("export: pdf exporter not initialised")
	}
	endpoint := strings.TrimRight(p.Endpoint, "/")
	if endpoint == "" {
		return nil, fmt.Errorf("export: gotenberg endpoint required")
	}
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("files", "statement.html")
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(part, buildHTML(payload)); err != nil {
		return nil, err
	}
	if err := writer.WriteField("waitDelay", "500"); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/forms/chromium/convert/html", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("export: gotenberg response %d: %s", resp.StatusCode, string(data))
	}

	return io.ReadAll(resp.Body)
}

func buildHTML(payload StatementPayload) string {
	var b strings.Builder
	b.WriteString("<html><head><meta charset=\"utf-8\"><style>")
	b.WriteString("body{font-family:sans-serif;margin:24px;}h1{font-size:20px;}table{width:100%;border-collapse:collapse;margin-bottom:16px;}th,td{border:1px solid #ddd;padding:6px;text-align:right;}th{text-align:left;background:#f5f5f5;} .label{text-align:left;}")
	b.WriteString("</style></head><body>")
	b.WriteString(fmt.Sprintf("<h1>%s</h1>", html.EscapeString(payload.Title)))

	b.WriteString("<table><thead><tr><th>Date</th><th>Reference</th><th>Description</th><th>Kind</th><th>Amount</th><th>Balance</th></tr></thead><tbody>")
	for _, entry := range payload.Entries {
		b.WriteString("<tr><td class=\"label\">")
		b.WriteString(entry.Date.Format(dateLayout))
		b.WriteString("</td><td class=\"label\">")
		b.WriteString(html.EscapeString(entry.Reference))
		b.WriteString("</td><td class=\"label\">")
		b.WriteString(html.EscapeString(entry.Description))
		b.WriteString("</td><td class=\"label\">")
		b.WriteString(string(entry.Kind))
		b.WriteString("</td><td>")
		b.WriteString(formatAmount(entry.Amount))
		b.WriteString("</td><td>")
		b.WriteString(formatAmount(entry.RunningBalance))
		b.WriteString("</td></tr>")
	}
	b.WriteString("</tbody></table>")

	b.WriteString("<table><tbody>")
	writeSummaryRow(&b, "Total Debits", payload.Summary.TotalDebits)
	writeSummaryRow(&b, "Total Credits", payload.Summary.TotalCredits)
	writeSummaryRow(&b, "Outstanding Balance", payload.Summary.OutstandingBalance)
	if payload.Summary.LastCreditDate != nil {
		b.WriteString("<tr><td class=\"label\">Last Payment</td><td>")
		b.WriteString(payload.Summary.LastCreditDate.Format(dateLayout))
		b.WriteString("</td></tr>")
	}
	b.WriteString("</tbody></table></body></html>")
	return b.String()
}

func writeSummaryRow(b *strings.Builder, label string, value decimal.Decimal) {
	b.WriteString("<tr><td class=\"label\">")
	b.WriteString(html.EscapeString(label))
	b.WriteString("</td><td>")
	b.WriteString(formatAmount(value))
	b.WriteString("</td></tr>")
}

// formatAmount renders a 2dp amount with digit grouping for print.
func formatAmount(d decimal.Decimal) string {
	rounded := ledger.Round2(d)
	f, _ := rounded.Float64()
	return amountPrinter.Sprintf("%.2f", f)
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

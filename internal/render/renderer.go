// Package render turns an order into a printable A4 PDF document. The
// markup is built in memory and captured through a headless Chrome
// instance that is acquired and torn down per call.
package render

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"sync"
	"sync/atomic"
	"time"

	"shopdesk/internal/config"
	"shopdesk/internal/domain"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// captureTimeout bounds the whole browser acquire + capture step so a
// wedged Chrome can never block an order request indefinitely.
const captureTimeout = 30 * time.Second

// A4 paper in inches, with uniform 20px margins at 96 DPI.
const (
	paperWidthInches  = 8.27
	paperHeightInches = 11.69
	marginInches      = 20.0 / 96.0
)

// Renderer produces a PDF document for an order.
type Renderer interface {
	Render(ctx context.Context, order *domain.Order) ([]byte, error)
}

type chromeRenderer struct {
	company config.CompanyConfig
}

// idleSignal resolves once the page reports the networkIdle lifecycle
// event. The letterhead logo is an external image, so DOM readiness alone
// is too early to capture: the document is only settled when no
// network-equivalent activity remains. Events are ignored until arm() is
// called so stale lifecycle state from before the content was set cannot
// release the wait.
type idleSignal struct {
	armed atomic.Bool
	once  sync.Once
	ch    chan struct{}
}

func newIdleSignal() *idleSignal {
	return &idleSignal{ch: make(chan struct{})}
}

func (s *idleSignal) arm() {
	s.armed.Store(true)
}

func (s *idleSignal) handle(ev interface{}) {
	e, ok := ev.(*page.EventLifecycleEvent)
	if !ok || e.Name != "networkIdle" || !s.armed.Load() {
		return
	}
	s.once.Do(func() { close(s.ch) })
}

func (s *idleSignal) wait(ctx context.Context) error {
	select {
	case <-s.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NewRenderer creates a Renderer backed by headless Chrome.
func NewRenderer(company config.CompanyConfig) Renderer {
	return &chromeRenderer{company: company}
}

// Render builds the document markup and captures it as a single-page PDF.
// The browser is always torn down, even when the capture fails; no partial
// output is ever returned.
func (r *chromeRenderer) Render(ctx context.Context, order *domain.Order) ([]byte, error) {
	html, err := BuildHTML(order, r.company)
	if err != nil {
		return nil, fmt.Errorf("failed to build order document: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, captureTimeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.Flag("disable-setuid-sandbox", true),
	)...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	idle := newIdleSignal()
	chromedp.ListenTarget(browserCtx, idle.handle)

	var pdf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			if err := page.SetLifecycleEventsEnabled(true).Do(ctx); err != nil {
				return err
			}
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			idle.arm()
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(idle.wait),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(paperWidthInches).
				WithPaperHeight(paperHeightInches).
				WithMarginTop(marginInches).
				WithMarginBottom(marginInches).
				WithMarginLeft(marginInches).
				WithMarginRight(marginInches).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render order document: %w", err)
	}

	return pdf, nil
}

// documentRow is one line of the items table.
type documentRow struct {
	Number      int
	ProductName string
	Brand       string
	Quantity    int
	Placeholder bool
}

// documentData feeds the document template.
type documentData struct {
	OrderID   string
	OrderDate string
	Company   config.CompanyConfig
	Rows      []documentRow
}

// buildRows maps line items onto table rows. The table always contains at
// least one row: an order without items gets a single placeholder row.
func buildRows(items []domain.OrderItem) []documentRow {
	if len(items) == 0 {
		return []documentRow{{Number: 1, Placeholder: true}}
	}

	rows := make([]documentRow, 0, len(items))
	for i, item := range items {
		name := item.ProductName
		if name == "" {
			name = "Unnamed Product"
		}
		brand := item.Brand
		if brand == "" {
			brand = "—"
		}
		rows = append(rows, documentRow{
			Number:      i + 1,
			ProductName: name,
			Brand:       brand,
			Quantity:    item.Quantity,
		})
	}
	return rows
}

// BuildHTML renders the self-contained document markup for an order.
func BuildHTML(order *domain.Order, company config.CompanyConfig) (string, error) {
	createdAt := order.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	data := documentData{
		OrderID:   order.ID.String(),
		OrderDate: createdAt.Format("2 January 2006"),
		Company:   company,
		Rows:      buildRows(order.Items),
	}

	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute document template: %w", err)
	}
	return buf.String(), nil
}

var documentTemplate = template.Must(template.New("order-document").Parse(`<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="UTF-8" />
    <title>Request Copy - {{.OrderID}}</title>
    <style>
      * { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; box-sizing: border-box; }
      body { margin: 0; padding: 24px; background: #f5f5f5; color: #1f2937; }
      .sheet { background: #fff; padding: 24px; border: 1px solid #e5e7eb; }
      .heading-table, .items-table { width: 100%; border-collapse: collapse; }
      .heading-table th, .heading-table td { border: 1px solid #111; padding: 12px; text-align: left; }
      .heading-table th { text-transform: uppercase; font-size: 18px; }
      .heading-table td { font-size: 14px; }
      .logo-container { text-align: center; padding: 20px 16px; }
      .logo-container img { max-width: 420px; width: 80%; margin-bottom: 12px; }
      .company-info { font-size: 13px; line-height: 1.4; color: #6b7280; }
      .items-table th, .items-table td { border: 1px solid #111; padding: 10px; font-size: 13px; }
      .items-table th { background: #f8f8f8; text-transform: uppercase; letter-spacing: 0.04em; }
      .sl-cell { width: 60px; text-align: center; }
      .qty-cell { width: 80px; text-align: center; font-weight: 600; }
      .empty-cell { text-align: center; color: #9ca3af; font-style: italic; }
    </style>
  </head>
  <body>
    <div class="sheet">
      <table class="heading-table">
        <tbody>
          <tr>
            <th colspan="2">Request Copy</th>
            <th style="width: 170px;">Order Id:</th>
            <td style="width: 170px;">{{.OrderID}}</td>
            <th style="width: 120px;">Date:</th>
            <td style="width: 150px;">{{.OrderDate}}</td>
          </tr>
        </tbody>
      </table>

      <div class="logo-container">
        <img src="{{.Company.LogoURL}}" alt="Company logo" />
        <div class="company-info">
          <div style="color:#b91c1c;font-weight:600;margin-bottom:4px;">
            {{.Company.Name}} - {{.Company.Tagline}}
          </div>
          <div style="margin-bottom:4px;">GSTIN : {{.Company.GSTIN}}</div>
          <div>{{.Company.Address}}</div>
          <div>Ph.: {{.Company.Phone}}  Mobile : {{.Company.Mobile}}  E-mail : {{.Company.Email}}</div>
        </div>
      </div>

      <table class="items-table">
        <thead>
          <tr>
            <th style="width:60px;">SL.NO</th>
            <th>PRODUCT NAME</th>
            <th style="width:140px;">BRAND</th>
            <th style="width:80px;">QTY</th>
          </tr>
        </thead>
        <tbody>
          {{- range .Rows}}
          {{- if .Placeholder}}
          <tr>
            <td class="sl-cell">{{.Number}}</td>
            <td colspan="3" class="empty-cell">No items were provided</td>
          </tr>
          {{- else}}
          <tr>
            <td class="sl-cell">{{.Number}}</td>
            <td>{{.ProductName}}</td>
            <td>{{.Brand}}</td>
            <td class="qty-cell">{{.Quantity}}</td>
          </tr>
          {{- end}}
          {{- end}}
        </tbody>
      </table>
    </div>
  </body>
</html>
`))

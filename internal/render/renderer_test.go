package render

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"shopdesk/internal/config"
	"shopdesk/internal/domain"

	"github.com/chromedp/cdproto/page"
	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCompany = config.CompanyConfig{
	Name:    "NORTHSTAR TRADING",
	Tagline: "A COMPLETE SOLUTION PROVIDER",
	GSTIN:   "00AAAAA0000A0Z0",
	Address: "12 Harbour Road, Trade Park, Springfield - 600 001.",
	Phone:   "000 - 0000 0000",
	Mobile:  "00000 00000",
	Email:   "sales@northstar-trading.example",
	LogoURL: "https://cdn.example.com/logo.png",
}

func orderWithItems(items []domain.OrderItem) *domain.Order {
	return &domain.Order{
		ID:           uuid.New(),
		CustomerName: "Jane",
		Phone:        "555",
		Email:        "j@x.com",
		Items:        items,
		Status:       domain.OrderStatusPending,
		CreatedAt:    time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC),
	}
}

func bodyRowCount(html string) int {
	tbody := html[strings.LastIndex(html, "<tbody>"):]
	return strings.Count(tbody, "<tr>")
}

func TestBuildRows_EmptyOrderGetsPlaceholderRow(t *testing.T) {
	rows := buildRows(nil)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Placeholder)
	assert.Equal(t, 1, rows[0].Number)
}

func TestBuildRows_Fallbacks(t *testing.T) {
	rows := buildRows([]domain.OrderItem{
		{ProductID: "p1"},
	})
	require.Len(t, rows, 1)
	assert.Equal(t, "Unnamed Product", rows[0].ProductName)
	assert.Equal(t, "—", rows[0].Brand)
	assert.Equal(t, 0, rows[0].Quantity)
}

func TestBuildHTML_EmptyOrderHasSinglePlaceholderRow(t *testing.T) {
	html, err := BuildHTML(orderWithItems(nil), testCompany)
	require.NoError(t, err)

	assert.Equal(t, 1, bodyRowCount(html))
	assert.Contains(t, html, "No items were provided")
}

func TestBuildHTML_ContainsHeaderAndLetterhead(t *testing.T) {
	order := orderWithItems([]domain.OrderItem{
		{ProductID: "p1", ProductName: "Widget", Brand: "Acme", Quantity: 3},
	})

	html, err := BuildHTML(order, testCompany)
	require.NoError(t, err)

	assert.Contains(t, html, order.ID.String())
	assert.Contains(t, html, "14 March 2026")
	assert.Contains(t, html, testCompany.Name)
	assert.Contains(t, html, testCompany.GSTIN)
	assert.Contains(t, html, testCompany.Address)
	assert.Contains(t, html, "Widget")
	assert.Contains(t, html, "Acme")
}

// An order with N items always renders exactly N table rows, numbered
// 1..N, each carrying the item's name, brand, and quantity with the
// documented fallbacks.
func TestProperty_RowCountMatchesItemCount(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("N items render as N numbered rows", prop.ForAll(
		func(names []string, quantity int) bool {
			items := make([]domain.OrderItem, len(names))
			for i, name := range names {
				items[i] = domain.OrderItem{
					ProductID:   fmt.Sprintf("p%d", i),
					ProductName: name,
					Quantity:    quantity,
				}
			}

			html, err := BuildHTML(orderWithItems(items), testCompany)
			if err != nil {
				return false
			}

			expected := len(items)
			if expected == 0 {
				expected = 1
			}
			if bodyRowCount(html) != expected {
				return false
			}

			rows := buildRows(items)
			for i, row := range rows {
				if row.Number != i+1 {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Identifier()),
		gen.IntRange(1, 100),
	))

	properties.TestingRun(t)
}

func TestIdleSignal_ReleasesOnlyOnArmedNetworkIdle(t *testing.T) {
	idle := newIdleSignal()

	// Lifecycle noise before the content is set must not release the wait.
	idle.handle(&page.EventLifecycleEvent{Name: "networkIdle"})
	idle.handle(&page.EventLifecycleEvent{Name: "load"})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.Error(t, idle.wait(ctx))

	idle.arm()

	// Non-idle events still don't release it.
	idle.handle(&page.EventLifecycleEvent{Name: "DOMContentLoaded"})
	idle.handle(&page.EventLifecycleEvent{Name: "load"})
	idle.handle("not a lifecycle event")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel2()
	require.Error(t, idle.wait(ctx2))

	idle.handle(&page.EventLifecycleEvent{Name: "networkIdle"})
	assert.NoError(t, idle.wait(context.Background()))

	// Repeated idle events after release are harmless.
	idle.handle(&page.EventLifecycleEvent{Name: "networkIdle"})
	assert.NoError(t, idle.wait(context.Background()))
}

func TestIdleSignal_WaitHonoursContextCancellation(t *testing.T) {
	idle := newIdleSignal()
	idle.arm()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, idle.wait(ctx), context.Canceled)
}

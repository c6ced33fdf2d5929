package admin

import (
	"anbsupport/app/service/notify"
	"anbsupport/app/service/state"
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/samber/do"
)

// maxAmount caps a single sale, in rand.
const maxAmount = 1_000_000

const (
	serverName    = "anb-support-admin"
	serverVersion = "1.0.0"
)

// Service exposes ledger tools to MCP clients used by the shop owner.
type Service struct {
	store    *state.Store
	notifier *notify.Service
	mcp      *server.MCPServer

	now func() time.Time
}

func New(di *do.Injector) (*Service, error) {
	return NewService(do.MustInvoke[*state.Store](di), do.MustInvoke[*notify.Service](di)), nil
}

func NewService(store *state.Store, notifier *notify.Service) *Service {
	s := &Service{
		store:    store,
		notifier: notifier,
		now:      time.Now,
	}

	s.mcp = server.NewMCPServer(serverName, serverVersion, server.WithToolCapabilities(false))

	s.mcp.AddTool(
		mcp.NewTool("sales_report",
			mcp.WithDescription("Sales report with completed, pending and today's promised sales."),
		),
		s.salesReport,
	)

	s.mcp.AddTool(
		mcp.NewTool("record_sale",
			mcp.WithDescription("Record a sale taken outside the chat, e.g. in store or over WhatsApp."),
			mcp.WithString("item", mcp.Required(), mcp.Description("Model and color, e.g. iPhone 15 Pro Blue")),
			mcp.WithNumber("amount", mcp.Required(), mcp.Description("Amount in rand")),
			mcp.WithString("status", mcp.Description("pending or promised, defaults to pending"),
				mcp.Enum(string(state.StatusPending), string(state.StatusPromised))),
			mcp.WithString("session", mcp.Description("Chat session the sale belongs to, defaults to admin")),
		),
		s.recordSale,
	)

	return s
}

func (s *Service) Handler() http.Handler {
	return server.NewStreamableHTTPServer(s.mcp)
}

func (s *Service) salesReport(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var report string
	s.store.Ledger(func(ledger *state.Ledger) {
		report = ledger.Report(s.now())
	})

	return mcp.NewToolResultText(report), nil
}

func (s *Service) recordSale(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	item, err := req.RequireString("item")
	if err != nil || strings.TrimSpace(item) == "" {
		return mcp.NewToolResultError("item is required"), nil
	}

	amount, err := req.RequireFloat("amount")
	if err != nil || amount < 0 || amount > maxAmount || amount != math.Trunc(amount) {
		return mcp.NewToolResultError(fmt.Sprintf("amount must be a whole number of rand between 0 and %d", maxAmount)), nil
	}

	status := state.SaleStatus(req.GetString("status", string(state.StatusPending)))
	sessionID := req.GetString("session", "admin")

	var sale state.Sale
	switch status {
	case state.StatusPending:
		s.store.Ledger(func(ledger *state.Ledger) {
			sale = ledger.RecordPending(sessionID, item, int(amount), s.now())
		})
	case state.StatusPromised:
		s.store.Ledger(func(ledger *state.Ledger) {
			sale = ledger.RecordPromised(sessionID, item, int(amount), s.now())
		})
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unsupported status %q", status)), nil
	}

	slog.Info("Sale recorded by admin", "sale_id", sale.ID, "item", sale.Item, "amount", sale.Amount)

	kind := notify.KindOrder
	if status == state.StatusPromised {
		kind = notify.KindLayBy
	}
	s.notifier.Add(notify.Event{
		Kind:      kind,
		SessionID: sale.SessionID,
		SaleID:    sale.ID,
		Item:      sale.Item,
		Amount:    sale.Amount,
	})

	return mcp.NewToolResultText(fmt.Sprintf("Recorded sale #%d: %s, R%d (%s)", sale.ID, sale.Item, sale.Amount, sale.Status)), nil
}

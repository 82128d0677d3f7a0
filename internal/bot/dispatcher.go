package bot

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/ayyubpromptcoder/sellerbot/internal/catalog"
	"github.com/ayyubpromptcoder/sellerbot/internal/ledger"
)

// handlerFunc processes one event for one session. The session is already
// locked when the handler runs.
type handlerFunc func(ctx context.Context, ev Event, ses *Session)

// route binds (session state, event pattern) to a handler. The tables are
// scanned top to bottom and the first match wins, so commands and inline
// buttons outrank the free-text handlers of whatever flow is in progress.
type route struct {
	state  State
	match  func(Event) bool
	handle handlerFunc
}

// Dispatcher classifies inbound events by actor role and session state and
// runs the matching flow handler. It is the only place that knows both
// conversation machines.
type Dispatcher struct {
	admins  map[int64]bool
	catalog *catalog.Service
	ledger  *ledger.Service
	msg     Messenger

	sessions     *Sessions
	logger       *zap.Logger
	adminRoutes  []route
	sellerRoutes []route
}

// NewDispatcher wires the two route tables. adminIDs is the closed set of
// administrator user IDs; everyone else is treated as a (potential) seller.
func NewDispatcher(adminIDs []int64, cat *catalog.Service, led *ledger.Service, msg Messenger, logger *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		admins:   make(map[int64]bool, len(adminIDs)),
		catalog:  cat,
		ledger:   led,
		msg:      msg,
		sessions: NewSessions(),
		logger:   logger,
	}
	for _, id := range adminIDs {
		d.admins[id] = true
	}

	d.adminRoutes = []route{
		{AnyState, onCommand("start"), d.adminStart},
		{AnyState, onCommand("mahsulot"), d.productMenu},
		{AnyState, onCommand("sotuvchi"), d.sellerMenu},
		{AnyState, onCallback(cbListProducts), d.listProducts},
		{AnyState, onCallback(cbAddProduct), d.startAddProduct},
		{AnyState, onCallback(cbStockOverview), d.stockOverview},
		{AnyState, onCallback(cbListSellers), d.listSellers},
		{AnyState, onCallback(cbAddSeller), d.startAddSeller},
		{AnyState, onCallbackPrefix(cbSellerDetail), d.sellerDetail},
		{AnyState, onCallbackPrefix(cbSellerStock), d.sellerStockView},
		{AnyState, onCallbackPrefix(cbIssueStock), d.startIssueStock},
		{AnyState, onCallbackPrefix(cbSellerSales), d.sellerSales},
		{AnyState, onCallbackPrefix(cbViewPassword), d.viewPassword},
		{AnyState, onCallbackPrefix(cbResetPassword), d.resetPassword},
		{StateProductName, onText(), d.handleProductName},
		{StateProductPrice, onText(), d.handleProductPrice},
		{StateSellerName, onText(), d.handleSellerName},
		{StateSellerRegion, onText(), d.handleSellerRegion},
		{StateSellerPhone, onText(), d.handleSellerPhone},
		{StateSellerPassword, onText(), d.handleSellerPassword},
		{StateIssueProductName, onText(), d.handleIssueProductName},
		{StateIssueNewPrice, onText(), d.handleIssueNewPrice},
		{StateIssueQuantity, onText(), d.handleIssueQuantity},
	}

	d.sellerRoutes = []route{
		{AnyState, onCommand("start"), d.sellerStart},
		{AnyState, onCommand("stok"), d.viewOwnStock},
		{AnyState, onCommand("savdo"), d.startSale},
		{AnyState, onButton(btnViewStock), d.viewOwnStock},
		{AnyState, onButton(btnEnterSale), d.startSale},
		{AnyState, onButton(btnLogout), d.logout},
		{StateAuthPassword, onText(), d.handleAuthPassword},
		{StateSaleProductName, onText(), d.handleSaleProductName},
		{StateSaleQuantity, onText(), d.handleSaleQuantity},
	}

	return d
}

// Dispatch handles one event to completion. Events for the same chat are
// serialized by the session lock; different chats proceed concurrently.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) {
	ses := d.sessions.Get(ev.ChatID)
	ses.mu.Lock()
	defer ses.mu.Unlock()

	routes := d.sellerRoutes
	if d.admins[ev.UserID] {
		routes = d.adminRoutes
	}

	for _, r := range routes {
		if r.state != AnyState && r.state != ses.State {
			continue
		}
		if !r.match(ev) {
			continue
		}
		r.handle(ctx, ev, ses)
		d.ack(ev)
		return
	}

	// No route: unknown command, stray callback, or text outside a flow.
	// Per the authorization policy this is dropped silently.
	d.logger.Debug("event not routed",
		zap.Int64("chat_id", ev.ChatID),
		zap.String("command", ev.Command),
		zap.String("callback", ev.Callback))
	d.ack(ev)
}

func (d *Dispatcher) ack(ev Event) {
	if ev.CallbackID == "" {
		return
	}
	if err := d.msg.AnswerCallback(ev.CallbackID); err != nil {
		d.logger.Warn("callback answer failed", zap.Error(err))
	}
}

func (d *Dispatcher) send(chatID int64, text string) {
	if err := d.msg.SendText(chatID, text); err != nil {
		d.logger.Warn("send failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (d *Dispatcher) sendMenu(chatID int64, text string, menu Menu) {
	if err := d.msg.SendMenu(chatID, text, menu); err != nil {
		d.logger.Warn("menu send failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (d *Dispatcher) sendKeyboard(chatID int64, text string, rows [][]string) {
	if err := d.msg.SendKeyboard(chatID, text, rows); err != nil {
		d.logger.Warn("keyboard send failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (d *Dispatcher) removeKeyboard(chatID int64, text string) {
	if err := d.msg.RemoveKeyboard(chatID, text); err != nil {
		d.logger.Warn("keyboard remove failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func onCommand(name string) func(Event) bool {
	return func(ev Event) bool { return ev.Command == name }
}

func onCallback(data string) func(Event) bool {
	return func(ev Event) bool { return ev.Callback == data }
}

func onCallbackPrefix(prefix string) func(Event) bool {
	return func(ev Event) bool { return strings.HasPrefix(ev.Callback, prefix) }
}

func onButton(label string) func(Event) bool {
	return func(ev Event) bool { return ev.Text == label }
}

func onText() func(Event) bool {
	return func(ev Event) bool { return ev.Text != "" && ev.Callback == "" }
}

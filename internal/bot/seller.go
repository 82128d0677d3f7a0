package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Seller flows: password login, own-stock view, sale entry, logout.
// Authentication is the shared password issued by the admin; a failed
// attempt just re-prompts, there is no lockout.

func (d *Dispatcher) sellerStart(_ context.Context, ev Event, ses *Session) {
	if ses.Authenticated() {
		d.sellerMainMenu(ev.ChatID, ses)
		return
	}
	d.send(ev.ChatID, "Tizimga kirish uchun maxsus Parolni kiriting.")
	ses.State = StateAuthPassword
}

func (d *Dispatcher) sellerMainMenu(chatID int64, ses *Session) {
	d.sendKeyboard(chatID,
		fmt.Sprintf("Assalomu alaykum, %s! Asosiy menyu:", ses.SellerName),
		[][]string{
			{btnViewStock, btnEnterSale},
			{btnLogout},
		})
}

func (d *Dispatcher) handleAuthPassword(ctx context.Context, ev Event, ses *Session) {
	sl := d.catalog.SellerByPassword(ctx, strings.TrimSpace(ev.Text))
	if sl == nil {
		d.send(ev.ChatID, "❌ Parol noto'g'ri. Iltimos, qayta urining yoki adminga murojaat qiling.")
		return
	}
	ses.SellerID = sl.ID
	ses.SellerName = sl.Name
	ses.EndFlow()
	d.sellerMainMenu(ev.ChatID, ses)
}

func (d *Dispatcher) viewOwnStock(ctx context.Context, ev Event, ses *Session) {
	if !ses.Authenticated() {
		d.send(ev.ChatID, "Iltimos, avval tizimga kiring. /start")
		return
	}
	stock := d.catalog.SellerStock(ctx, ses.SellerID)
	if len(stock) == 0 {
		d.send(ev.ChatID, fmt.Sprintf("%s hisobida hozircha tovarlar mavjud emas.", ses.SellerName))
		return
	}
	d.send(ev.ChatID, fmt.Sprintf("🛍️ %s dagi Mahsulotlar Ro'yxati:\n\n%s",
		ses.SellerName, d.stockLines(ctx, stock)))
	d.send(ev.ChatID, "Davom etish uchun menyudan tanlang.")
}

func (d *Dispatcher) startSale(_ context.Context, ev Event, ses *Session) {
	if !ses.Authenticated() {
		d.send(ev.ChatID, "Iltimos, avval tizimga kiring. /start")
		return
	}
	d.send(ev.ChatID, "Sotilgan Mahsulot Nomini kiriting:")
	ses.State = StateSaleProductName
}

func (d *Dispatcher) handleSaleProductName(ctx context.Context, ev Event, ses *Session) {
	name := strings.TrimSpace(ev.Text)
	p := d.catalog.ProductByName(ctx, name)
	if p == nil {
		d.send(ev.ChatID, fmt.Sprintf("❌ '%s' nomli mahsulot bazada topilmadi. Nomni to'g'ri kiritganingizga ishonch hosil qiling:", name))
		return
	}
	ses.Set(keySaleProduct, strconv.Itoa(p.ID))
	ses.Set(keySaleProductName, p.Name)
	ses.Set(keySalePrice, strconv.FormatFloat(p.Price, 'f', -1, 64))
	d.send(ev.ChatID, fmt.Sprintf("Mahsulot narxi: %s so'm.\nEndi sotilgan Miqdorni (sonini) kiriting:", money(p.Price)))
	ses.State = StateSaleQuantity
}

// handleSaleQuantity performs the compensating write pair: one positive
// sale record, one negative stock movement. The two appends are sequential;
// if the second fails the seller is told the ledger and stock now disagree.
func (d *Dispatcher) handleSaleQuantity(ctx context.Context, ev Event, ses *Session) {
	quantity, err := strconv.Atoi(strings.TrimSpace(ev.Text))
	if err != nil || quantity <= 0 {
		d.send(ev.ChatID, "Miqdor noto'g'ri kiritildi. Iltimos, musbat butun son kiriting:")
		return
	}
	productID, _ := strconv.Atoi(ses.Get(keySaleProduct))
	price, _ := strconv.ParseFloat(ses.Get(keySalePrice), 64)
	name := ses.Get(keySaleProductName)

	switch {
	case !d.ledger.RecordSale(ctx, ses.SellerID, productID, quantity, price):
		d.send(ev.ChatID, "⚠️ Savdoni Sheetsga yozishda xato yuz berdi. Jarayon bekor qilindi.")
	case !d.catalog.IssueStock(ctx, ses.SellerID, productID, -quantity, price):
		d.send(ev.ChatID, "⚠️ Savdo yozildi, lekin stokdan ayirishda xato yuz berdi. Adminga xabar bering.")
	default:
		d.send(ev.ChatID, fmt.Sprintf("✅ Savdo muvaffaqiyatli kiritildi!\nTovar: %s\nSotildi: %d dona\nJami qiymat: %s so'm",
			name, quantity, money(price*float64(quantity))))
	}

	ses.EndFlow()
	d.sellerMainMenu(ev.ChatID, ses)
}

func (d *Dispatcher) logout(_ context.Context, ev Event, ses *Session) {
	ses.Reset()
	d.removeKeyboard(ev.ChatID, "Siz tizimdan muvaffaqiyatli chiqdingiz. Qayta kirish uchun /start buyrug'ini yuboring.")
}

package bot

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ayyubpromptcoder/sellerbot/internal/catalog"
)

// Administrator flows: product management, seller management, stock
// issuance. Every terminal step ends with EndFlow regardless of whether
// the write went through; a failed write is reported, not retried.

func (d *Dispatcher) adminStart(_ context.Context, ev Event, _ *Session) {
	d.sendKeyboard(ev.ChatID,
		"Assalomu alaykum, Admin! Asosiy buyruqlarni tanlang:",
		[][]string{{"/mahsulot", "/sotuvchi"}})
}

func (d *Dispatcher) productMenu(_ context.Context, ev Event, _ *Session) {
	d.sendMenu(ev.ChatID, "Mahsulotlar bo'limi:", Menu{
		{{Label: "📋 Mahsulotlar Ro'yxati", Data: cbListProducts}},
		{{Label: "➕ Yangi Mahsulot Kiritish", Data: cbAddProduct}},
	})
}

func (d *Dispatcher) listProducts(ctx context.Context, ev Event, _ *Session) {
	products := d.catalog.Products(ctx)
	if len(products) == 0 {
		d.send(ev.ChatID, "⚠️ Mahsulotlar bazasi bo'sh yoki ulanishda xato.")
		return
	}
	var b strings.Builder
	b.WriteString("📋 Barcha Mahsulotlar Ro'yxati:\n\n")
	for _, p := range products {
		fmt.Fprintf(&b, "• %s: %s so'm\n", p.Name, money(p.Price))
	}
	d.send(ev.ChatID, b.String())
}

func (d *Dispatcher) startAddProduct(_ context.Context, ev Event, ses *Session) {
	d.send(ev.ChatID, "Yangi mahsulot nomini kiriting:")
	ses.State = StateProductName
}

func (d *Dispatcher) handleProductName(_ context.Context, ev Event, ses *Session) {
	ses.Set(keyProductName, ev.Text)
	d.send(ev.ChatID, fmt.Sprintf("'%s' uchun narxni (faqat raqamda) kiriting:", ev.Text))
	ses.State = StateProductPrice
}

func (d *Dispatcher) handleProductPrice(ctx context.Context, ev Event, ses *Session) {
	price, err := strconv.ParseFloat(strings.TrimSpace(ev.Text), 64)
	if err != nil {
		d.send(ev.ChatID, "Narx noto'g'ri kiritildi. Iltimos, faqat raqam kiriting:")
		return
	}
	name := ses.Get(keyProductName)
	if d.catalog.AddProduct(ctx, name, price) {
		d.send(ev.ChatID, fmt.Sprintf("✅ Yangi mahsulot muvaffaqiyatli qo'shildi:\nNomi: %s\nNarxi: %s so'm", name, money(price)))
	} else {
		d.send(ev.ChatID, "⚠️ Ma'lumotni Sheetsga yozishda xato yuz berdi.")
	}
	ses.EndFlow()
}

func (d *Dispatcher) sellerMenu(_ context.Context, ev Event, _ *Session) {
	d.sendMenu(ev.ChatID, "Sotuvchilar bo'limi:", Menu{
		{{Label: "🛒 Sotuvchilardagi Mahsulotlar", Data: cbStockOverview}},
		{{Label: "👥 Sotuvchilar", Data: cbListSellers}},
		{{Label: "➕ Yangi Sotuvchi Qo'shish", Data: cbAddSeller}},
	})
}

func (d *Dispatcher) startAddSeller(_ context.Context, ev Event, ses *Session) {
	d.send(ev.ChatID, "Yangi sotuvchining Ismi/Familiyasini kiriting:")
	ses.State = StateSellerName
}

func (d *Dispatcher) handleSellerName(_ context.Context, ev Event, ses *Session) {
	ses.Set(keySellerName, ev.Text)
	d.send(ev.ChatID, "Sotuvchining Mahallasini kiriting:")
	ses.State = StateSellerRegion
}

func (d *Dispatcher) handleSellerRegion(_ context.Context, ev Event, ses *Session) {
	ses.Set(keySellerRegion, ev.Text)
	d.send(ev.ChatID, "Sotuvchining Telefon nomerini kiriting:")
	ses.State = StateSellerPhone
}

func (d *Dispatcher) handleSellerPhone(_ context.Context, ev Event, ses *Session) {
	ses.Set(keySellerPhone, ev.Text)
	d.send(ev.ChatID, "Sotuvchi uchun maxsus Parolni kiriting (bu ulanish uchun kalit bo'ladi):")
	ses.State = StateSellerPassword
}

func (d *Dispatcher) handleSellerPassword(ctx context.Context, ev Event, ses *Session) {
	if len(ev.Text) < 4 {
		d.send(ev.ChatID, "Parol juda qisqa. Kamida 4 belgidan iborat parol kiriting:")
		return
	}
	name := ses.Get(keySellerName)
	ok := d.catalog.AddSeller(ctx, name, ses.Get(keySellerRegion), ses.Get(keySellerPhone), ev.Text)
	if ok {
		d.send(ev.ChatID, fmt.Sprintf("✅ Yangi sotuvchi muvaffaqiyatli qo'shildi:\nIsmi: %s\nParoli: %s (Parolni yodda tuting!)", name, ev.Text))
	} else {
		d.send(ev.ChatID, "⚠️ Sotuvchini Sheetsga yozishda xato yuz berdi.")
	}
	ses.EndFlow()
}

func (d *Dispatcher) listSellers(ctx context.Context, ev Event, _ *Session) {
	sellers := d.catalog.Sellers(ctx)
	if len(sellers) == 0 {
		d.send(ev.ChatID, "⚠️ Sotuvchilar bazasi bo'sh yoki ulanishda xato.")
		return
	}
	menu := make(Menu, 0, len(sellers))
	for _, sl := range sellers {
		menu = append(menu, []Button{{
			Label: fmt.Sprintf("%s (%s)", sl.Name, sl.Region),
			Data:  cbSellerDetail + strconv.Itoa(sl.ID),
		}})
	}
	d.sendMenu(ev.ChatID, "👥 Sotuvchini tanlang:", menu)
}

func (d *Dispatcher) sellerDetail(ctx context.Context, ev Event, _ *Session) {
	sl := d.sellerFromCallback(ctx, ev, cbSellerDetail)
	if sl == nil {
		return
	}
	id := strconv.Itoa(sl.ID)
	text := fmt.Sprintf("👤 %s\nMahalla: %s\nTelefon: %s", sl.Name, sl.Region, sl.Phone)
	d.sendMenu(ev.ChatID, text, Menu{
		{
			{Label: "🛍️ Stok", Data: cbSellerStock + id},
			{Label: "➕ Stok berish", Data: cbIssueStock + id},
		},
		{{Label: "💰 Savdo hisoboti", Data: cbSellerSales + id}},
		{
			{Label: "🔑 Parol", Data: cbViewPassword + id},
			{Label: "♻️ Parolni yangilash", Data: cbResetPassword + id},
		},
	})
}

// stockOverview renders every seller's aggregated stock in one message.
func (d *Dispatcher) stockOverview(ctx context.Context, ev Event, _ *Session) {
	sellers := d.catalog.Sellers(ctx)
	if len(sellers) == 0 {
		d.send(ev.ChatID, "⚠️ Sotuvchilar bazasi bo'sh yoki ulanishda xato.")
		return
	}
	var b strings.Builder
	b.WriteString("🛒 Sotuvchilardagi Mahsulotlar:\n")
	for _, sl := range sellers {
		stock := d.catalog.SellerStock(ctx, sl.ID)
		if len(stock) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n👤 %s:\n", sl.Name)
		b.WriteString(d.stockLines(ctx, stock))
	}
	d.send(ev.ChatID, b.String())
}

func (d *Dispatcher) sellerStockView(ctx context.Context, ev Event, _ *Session) {
	sl := d.sellerFromCallback(ctx, ev, cbSellerStock)
	if sl == nil {
		return
	}
	stock := d.catalog.SellerStock(ctx, sl.ID)
	if len(stock) == 0 {
		d.send(ev.ChatID, fmt.Sprintf("%s hisobida hozircha tovarlar mavjud emas.", sl.Name))
		return
	}
	d.send(ev.ChatID, fmt.Sprintf("🛍️ %s dagi Mahsulotlar Ro'yxati:\n\n%s", sl.Name, d.stockLines(ctx, stock)))
}

func (d *Dispatcher) startIssueStock(ctx context.Context, ev Event, ses *Session) {
	sl := d.sellerFromCallback(ctx, ev, cbIssueStock)
	if sl == nil {
		return
	}
	ses.Set(keyIssueSeller, strconv.Itoa(sl.ID))
	d.send(ev.ChatID, fmt.Sprintf("%s uchun beriladigan Mahsulot Nomini kiriting:", sl.Name))
	ses.State = StateIssueProductName
}

func (d *Dispatcher) handleIssueProductName(ctx context.Context, ev Event, ses *Session) {
	name := strings.TrimSpace(ev.Text)
	if p := d.catalog.ProductByName(ctx, name); p != nil {
		ses.Set(keyIssueProduct, strconv.Itoa(p.ID))
		ses.Set(keyIssueProductName, p.Name)
		ses.Set(keyIssuePrice, strconv.FormatFloat(p.Price, 'f', -1, 64))
		d.send(ev.ChatID, fmt.Sprintf("Mahsulot narxi: %s so'm.\nEndi beriladigan Miqdorni kiriting:", money(p.Price)))
		ses.State = StateIssueQuantity
		return
	}
	ses.Set(keyIssueProductName, name)
	d.send(ev.ChatID, fmt.Sprintf("'%s' bazada topilmadi, yangi mahsulot sifatida qo'shiladi.\nNarxini (faqat raqamda) kiriting:", name))
	ses.State = StateIssueNewPrice
}

func (d *Dispatcher) handleIssueNewPrice(ctx context.Context, ev Event, ses *Session) {
	price, err := strconv.ParseFloat(strings.TrimSpace(ev.Text), 64)
	if err != nil {
		d.send(ev.ChatID, "Narx noto'g'ri kiritildi. Iltimos, faqat raqam kiriting:")
		return
	}
	name := ses.Get(keyIssueProductName)
	id, ok := d.catalog.AddProductID(ctx, name, price)
	if !ok {
		d.send(ev.ChatID, "⚠️ Yangi mahsulotni Sheetsga yozishda xato yuz berdi.")
		ses.EndFlow()
		return
	}
	ses.Set(keyIssueProduct, strconv.Itoa(id))
	ses.Set(keyIssuePrice, strconv.FormatFloat(price, 'f', -1, 64))
	d.send(ev.ChatID, fmt.Sprintf("✅ '%s' katalogga qo'shildi.\nEndi beriladigan Miqdorni kiriting:", name))
	ses.State = StateIssueQuantity
}

func (d *Dispatcher) handleIssueQuantity(ctx context.Context, ev Event, ses *Session) {
	quantity, err := strconv.Atoi(strings.TrimSpace(ev.Text))
	if err != nil || quantity <= 0 {
		d.send(ev.ChatID, "Miqdor noto'g'ri kiritildi. Iltimos, musbat butun son kiriting:")
		return
	}
	sellerID, _ := strconv.Atoi(ses.Get(keyIssueSeller))
	productID, _ := strconv.Atoi(ses.Get(keyIssueProduct))
	price, _ := strconv.ParseFloat(ses.Get(keyIssuePrice), 64)

	if d.catalog.IssueStock(ctx, sellerID, productID, quantity, price) {
		d.send(ev.ChatID, fmt.Sprintf("✅ Stok berildi!\nTovar: %s\nMiqdor: %d dona\nJami qiymat: %s so'm",
			ses.Get(keyIssueProductName), quantity, money(price*float64(quantity))))
	} else {
		d.send(ev.ChatID, "⚠️ Stokni Sheetsga yozishda xato yuz berdi.")
	}
	ses.EndFlow()
}

func (d *Dispatcher) sellerSales(ctx context.Context, ev Event, _ *Session) {
	sl := d.sellerFromCallback(ctx, ev, cbSellerSales)
	if sl == nil {
		return
	}
	monthStart := time.Now().Format("2006-01") + "-01"
	month := d.ledger.SellerSummary(ctx, sl.ID, monthStart, "")
	total := d.ledger.SellerSummary(ctx, sl.ID, "", "")
	d.send(ev.ChatID, fmt.Sprintf(
		"💰 %s savdo hisoboti:\n\nShu oy: %d dona, %s so'm\nJami: %d dona, %s so'm",
		sl.Name, month.Quantity, money(month.Revenue), total.Quantity, money(total.Revenue)))
}

func (d *Dispatcher) viewPassword(ctx context.Context, ev Event, _ *Session) {
	sl := d.sellerFromCallback(ctx, ev, cbViewPassword)
	if sl == nil {
		return
	}
	d.send(ev.ChatID, fmt.Sprintf("🔑 %s paroli: %s", sl.Name, sl.Password))
}

func (d *Dispatcher) resetPassword(ctx context.Context, ev Event, _ *Session) {
	sl := d.sellerFromCallback(ctx, ev, cbResetPassword)
	if sl == nil {
		return
	}
	password, err := newPassword()
	if err != nil {
		d.logger.Error("password generation failed", zap.Error(err))
		d.send(ev.ChatID, "⚠️ Parolni yangilashda xato yuz berdi.")
		return
	}
	if d.catalog.ResetSellerPassword(ctx, sl, password) {
		d.send(ev.ChatID, fmt.Sprintf("♻️ %s uchun yangi parol: %s", sl.Name, password))
	} else {
		d.send(ev.ChatID, "⚠️ Parolni yangilashda xato yuz berdi.")
	}
}

// newPassword draws a fresh 6-digit seller credential from the system
// entropy source.
func newPassword() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n), nil
}

// sellerFromCallback resolves the seller named in a "<prefix><id>" callback
// payload, reporting lookup failure to the admin.
func (d *Dispatcher) sellerFromCallback(ctx context.Context, ev Event, prefix string) *catalog.Seller {
	id, err := strconv.Atoi(strings.TrimPrefix(ev.Callback, prefix))
	if err != nil {
		return nil
	}
	sl := d.catalog.SellerByID(ctx, id)
	if sl == nil {
		d.send(ev.ChatID, "⚠️ Sotuvchi topilmadi yoki ulanishda xato.")
	}
	return sl
}

// stockLines renders aggregated stock, product IDs ordered as strings so
// the output matches the sheet-side grouping order.
func (d *Dispatcher) stockLines(ctx context.Context, stock map[int]catalog.StockLine) string {
	ids := make([]int, 0, len(stock))
	for id := range stock {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return strconv.Itoa(ids[i]) < strconv.Itoa(ids[j])
	})
	var b strings.Builder
	for _, id := range ids {
		line := stock[id]
		fmt.Fprintf(&b, "• %s: %d dona (@ %s so'm)\n",
			d.catalog.ProductNameByID(ctx, id), line.Quantity, money(line.Price))
	}
	return b.String()
}

// money formats an amount without trailing zeros for whole values.
func money(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

package bot

// Callback payloads for the admin inline menus. The per-seller actions
// carry the seller ID after the colon.
const (
	cbListProducts  = "list_products"
	cbAddProduct    = "add_new_product"
	cbStockOverview = "seller_stock_list"
	cbListSellers   = "list_all_sellers_menu"
	cbAddSeller     = "add_new_seller"
	cbSellerDetail  = "seller:"
	cbSellerStock   = "stock:"
	cbIssueStock    = "issue:"
	cbSellerSales   = "sales:"
	cbViewPassword  = "password:"
	cbResetPassword = "reset:"
)

// Reply keyboard labels of the seller main menu.
const (
	btnViewStock = "🛍️ Stokni ko'rish"
	btnEnterSale = "🛒 Savdo kiritish"
	btnLogout    = "🚪 Chiqish"
)

// Scratch keys used by the multi-step flows.
const (
	keyProductName = "product_name"

	keySellerName   = "seller_name"
	keySellerRegion = "seller_region"
	keySellerPhone  = "seller_phone"

	keyIssueSeller      = "issue_seller_id"
	keyIssueProduct     = "issue_product_id"
	keyIssueProductName = "issue_product_name"
	keyIssuePrice       = "issue_price"

	keySaleProduct     = "sale_product_id"
	keySaleProductName = "sale_product_name"
	keySalePrice       = "sale_price"
)

package dashboard

// Snapshot is the dashboard stats payload. MarketValue prices every holding
// at the oracle's last trade price, with missing prices counted as zero.
type Snapshot struct {
	Purse         float64 `json:"purse"`
	Invested      float64 `json:"invested"`
	MarketValue   float64 `json:"market_value"`
	ProfitLoss    float64 `json:"profit_loss"`
	ChangePercent float64 `json:"change_percent"`
	TotalValue    float64 `json:"total_value"` // market value + purse
}

// Asset class tags for the breakdown view
const (
	AssetStock = "STOCK"
	AssetBond  = "BOND"
	AssetCash  = "CASH"
)

// AssetEntry is one input line for the asset-class breakdown
type AssetEntry struct {
	AssetType string
	Quantity  float64
	UnitCost  float64
}

// Breakdown groups portfolio value by asset class
type Breakdown struct {
	TotalValue      float64 `json:"total_value"`
	StockValue      float64 `json:"stock_value"`
	BondValue       float64 `json:"bond_value"`
	CashValue       float64 `json:"cash_value"`
	StockPercentage float64 `json:"stock_percentage"`
	BondPercentage  float64 `json:"bond_percentage"`
	CashPercentage  float64 `json:"cash_percentage"`
}

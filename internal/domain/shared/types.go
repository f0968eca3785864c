package shared

// MarketplaceStats summarises the catalog for moderators
type MarketplaceStats struct {
	ItemCount    int            `json:"item_count"`
	UserCount    int            `json:"user_count"`
	TotalValue   float64        `json:"total_value"`
	AveragePrice float64        `json:"average_price"`
	ByCategory   map[string]int `json:"by_category"`
	ListedLast7d int            `json:"listed_last_7d"`
}

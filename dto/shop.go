package dto

type ShopItemResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ItemType    string `json:"item_type"`
	PriceCoins  int    `json:"price_coins"`
	AssetURL    string `json:"asset_url"`
	IsAvailable bool   `json:"is_available"`
	Owned       bool   `json:"owned"`
}

type BuyItemRequest struct {
	ItemID string `json:"item_id" validate:"required"`
}

func (r BuyItemRequest) Validate() error {
	return GetValidator().Struct(r)
}

type BuyItemResponse struct {
	ItemID       string `json:"item_id"`
	Owned        bool   `json:"owned"`
	AlreadyOwned bool   `json:"already_owned"`
	CoinsSpent   int    `json:"coins_spent"`
	CoinsLeft    int    `json:"coins_left"`
}

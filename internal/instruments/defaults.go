package instruments

import "github.com/solstocks/trading-gateway/pkg/model"

// DefaultListings is the mock listing table served when no external
// reference-data source is configured.
func DefaultListings() []model.Instrument {
	return []model.Instrument{
		{Symbol: "AAPL", Name: "Apple Inc.", Price: 178.25, Category: model.CategoryTraditional},
		{Symbol: "MSFT", Name: "Microsoft Corp.", Price: 412.80, Category: model.CategoryTraditional},
		{Symbol: "GOOGL", Name: "Alphabet Inc.", Price: 141.52, Category: model.CategoryTraditional},
		{Symbol: "AMZN", Name: "Amazon.com Inc.", Price: 186.40, Category: model.CategoryTraditional},
		{Symbol: "TSLA", Name: "Tesla Inc.", Price: 248.98, Category: model.CategoryPremium},
		{Symbol: "NVDA", Name: "NVIDIA Corp.", Price: 116.14, Category: model.CategoryPremium},
		{Symbol: "COIN", Name: "Coinbase Global Inc.", Price: 245.67, Category: model.CategoryCrypto},
		{Symbol: "RIOT", Name: "Riot Platforms Inc.", Price: 10.12, Category: model.CategoryCrypto},
		{Symbol: "MSTR", Name: "MicroStrategy Inc.", Price: 134.90, Category: model.CategoryCrypto},
		{Symbol: "MARA", Name: "Marathon Digital Holdings", Price: 17.31, Category: model.CategoryCrypto},
	}
}

// DefaultFeeSchedule is the fee table applied when none is configured.
// Percentages are percent units; min/max fees are in settlement token units.
func DefaultFeeSchedule() model.FeeSchedule {
	return model.FeeSchedule{
		model.CategoryTraditional: {BuyFeePercent: 0.25, SellFeePercent: 0.25, MinFee: 0.001, MaxFee: 0.10},
		model.CategoryCrypto:      {BuyFeePercent: 0.35, SellFeePercent: 0.35, MinFee: 0.002, MaxFee: 0.15},
		model.CategoryPremium:     {BuyFeePercent: 0.50, SellFeePercent: 0.45, MinFee: 0.005, MaxFee: 0.25},
	}
}

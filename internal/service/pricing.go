package service

import (
	"strings"

	"github.com/prostore-next/internal/config"
	"github.com/prostore-next/internal/models"

	"github.com/shopspring/decimal"
)

// CartPrices 购物车计价结果
type CartPrices struct {
	ItemsPrice    models.Money `json:"items_price"`
	ShippingPrice models.Money `json:"shipping_price"`
	TaxPrice      models.Money `json:"tax_price"`
	TotalPrice    models.Money `json:"total_price"`
}

// pricingRule 计价规则，由配置解析得到
type pricingRule struct {
	freeShippingThreshold decimal.Decimal
	shippingPrice         decimal.Decimal
	taxRate               decimal.Decimal
}

func parsePricingRule(cfg config.CartConfig) (pricingRule, error) {
	threshold, err := decimal.NewFromString(strings.TrimSpace(cfg.FreeShippingThreshold))
	if err != nil {
		return pricingRule{}, err
	}
	shipping, err := decimal.NewFromString(strings.TrimSpace(cfg.ShippingPrice))
	if err != nil {
		return pricingRule{}, err
	}
	taxRate, err := decimal.NewFromString(strings.TrimSpace(cfg.TaxRate))
	if err != nil {
		return pricingRule{}, err
	}
	return pricingRule{
		freeShippingThreshold: threshold,
		shippingPrice:         shipping,
		taxRate:               taxRate,
	}, nil
}

// CalcCartPrices 按固定规则计算购物车四项金额。
// 商品金额为各项单价乘数量之和；商品金额超过免邮门槛时运费为零，
// 否则收取固定运费；税费按商品金额乘税率计算。四项金额各自独立
// 四舍五入到分后再求合计。
func CalcCartPrices(cfg config.CartConfig, items []models.CartItem) (CartPrices, error) {
	rule, err := parsePricingRule(cfg)
	if err != nil {
		return CartPrices{}, ErrCartUpdateFailed
	}

	itemsSum := decimal.Zero
	for _, item := range items {
		line := item.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity)))
		itemsSum = itemsSum.Add(line)
	}
	itemsPrice := itemsSum.Round(2)

	shippingPrice := rule.shippingPrice.Round(2)
	if itemsPrice.GreaterThan(rule.freeShippingThreshold) {
		shippingPrice = decimal.Zero.Round(2)
	}

	taxPrice := rule.taxRate.Mul(itemsPrice).Round(2)
	totalPrice := itemsPrice.Add(shippingPrice).Add(taxPrice).Round(2)

	return CartPrices{
		ItemsPrice:    models.NewMoneyFromDecimal(itemsPrice),
		ShippingPrice: models.NewMoneyFromDecimal(shippingPrice),
		TaxPrice:      models.NewMoneyFromDecimal(taxPrice),
		TotalPrice:    models.NewMoneyFromDecimal(totalPrice),
	}, nil
}

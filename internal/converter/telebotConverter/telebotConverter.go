package telebotConverter

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/sebastiangueler-commits/cARTE/internal/model"
	"github.com/sebastiangueler-commits/cARTE/internal/model/tg/tgCallback"
	"github.com/shopspring/decimal"
	tele "gopkg.in/telebot.v4"
)

const defaultCurrency = money.USD

const HelpText = "👋 I read broker statements and find the assets in them.\n\n" +
	"/detect - send statement text or a photo and get the detected assets\n" +
	"/quote - get the live price of a symbol, e.g. /quote AAPL"

// FormatMoney renders amount with the currency grapheme; unknown currencies fall back to USD.
func FormatMoney(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(strings.ToUpper(currency))
	if cur == nil {
		cur = money.GetCurrency(defaultCurrency)
	}

	factor := decimal.New(1, int32(cur.Fraction))
	minor := amount.Mul(factor).Round(0)
	return money.New(minor.IntPart(), cur.Code).Display()
}

func DetectionResponse(detection model.Detection, prices map[string]decimal.Decimal) (text string, markup *tele.ReplyMarkup) {
	markup = &tele.ReplyMarkup{}
	markup.Inline(markup.Row(markup.Data("🔁 Another statement", tgCallback.DetectAgain)))

	if len(detection.Candidates) == 0 {
		if strings.TrimSpace(detection.Text) == "" {
			return "😕 No text extracted. Try a sharper photo or paste the statement text.", markup
		}
		return "😕 No known assets found in the statement.", markup
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 Detected assets: %d\n\n", len(detection.Candidates)))

	total := decimal.Zero
	for i, c := range detection.Candidates {
		sb.WriteString(fmt.Sprintf("%d. %s (%s)\n", i+1, c.Symbol, c.Name))
		sb.WriteString(fmt.Sprintf("   ▸ Quantity: %s\n", c.Quantity.String()))
		if c.PurchasePrice.IsPositive() {
			sb.WriteString(fmt.Sprintf("   ▸ Statement price: %s\n", FormatMoney(c.PurchasePrice, defaultCurrency)))
		}

		price, ok := prices[c.Symbol]
		if !ok {
			sb.WriteString("   ▸ Live price: unavailable\n\n")
			continue
		}
		value := price.Mul(c.Quantity)
		total = total.Add(value)
		sb.WriteString(fmt.Sprintf("   ▸ Live price: %s\n", FormatMoney(price, defaultCurrency)))
		sb.WriteString(fmt.Sprintf("   ▸ Value: %s\n\n", FormatMoney(value, defaultCurrency)))
	}

	if total.IsPositive() {
		sb.WriteString(fmt.Sprintf("💰 Total value: %s", FormatMoney(total, defaultCurrency)))
	}

	if detection.Source == model.SourceOCR {
		sb.WriteString("\n\n⚠️ Recognized from a photo, please double check the numbers.")
	}

	return strings.TrimSpace(sb.String()), markup
}

func QuoteResponse(quote model.Quote) (text string, markup *tele.ReplyMarkup) {
	markup = &tele.ReplyMarkup{}
	markup.Inline(markup.Row(
		markup.Data("🔄 Refresh", tgCallback.RefreshQuotePrefix+quote.Symbol),
		markup.Data("🔎 Another symbol", tgCallback.QuoteAgain),
	))

	trend := "📈"
	if quote.Change.IsNegative() {
		trend = "📉"
	}

	var sb strings.Builder
	if quote.ShortName != "" {
		sb.WriteString(fmt.Sprintf("%s %s (%s)\n", trend, quote.Symbol, quote.ShortName))
	} else {
		sb.WriteString(fmt.Sprintf("%s %s\n", trend, quote.Symbol))
	}
	sb.WriteString(fmt.Sprintf("💵 Price: %s\n", FormatMoney(quote.Price, quote.Currency)))
	sb.WriteString(fmt.Sprintf("   ▸ Change: %s (%s%%)\n", signed(FormatMoney(quote.Change.Abs(), quote.Currency), quote.Change), quote.ChangePercent.StringFixed(2)))
	if quote.Exchange != "" {
		sb.WriteString(fmt.Sprintf("   ▸ Exchange: %s\n", quote.Exchange))
	}
	if !quote.UpdatedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("🕒 %s UTC", quote.UpdatedAt.UTC().Format("2006-01-02 15:04")))
	}

	return strings.TrimSpace(sb.String()), markup
}

func signed(formatted string, d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + formatted
	}
	return "+" + formatted
}

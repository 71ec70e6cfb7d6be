package api

import (
	"embed"
	"fmt"
	"html/template"
	"math"
	"time"

	"github.com/vytor/learnearn/internal/models"
	"github.com/vytor/learnearn/internal/wallet"
)

//go:embed templates/*.html
var templatesFS embed.FS

func LoadTemplates() (*template.Template, error) {
	funcs := template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
		// seq returns a sequence of integers from start to end inclusive.
		"seq": func(start, end int) []int {
			if end < start {
				return []int{}
			}
			nums := make([]int, 0, end-start+1)
			for i := start; i <= end; i++ {
				nums = append(nums, i)
			}
			return nums
		},
		"celo":          func(v float64) string { return fmt.Sprintf("%.2f", v) },
		"usd":           func(v float64) string { return fmt.Sprintf("%.2f", wallet.USDEstimate(v)) },
		"pct":           func(v float64) string { return fmt.Sprintf("%.0f", v) },
		"level":         wallet.Level,
		"levelProgress": wallet.LevelProgress,
		"ago":           relativeDate,
		"txSign": func(tx models.Transaction) string {
			if tx.Credit() {
				return "+"
			}
			return "-"
		},
		"txIcon": transactionIcon,
	}

	return template.New("base").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")
}

// refreshSeconds rounds a delay up to whole seconds for meta refresh.
func refreshSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}

// relativeDate renders a transaction date the way the history list shows it.
func relativeDate(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff/time.Minute))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff/time.Hour))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff/(24*time.Hour)))
	}
	return t.Local().Format("2 Jan 2006")
}

func transactionIcon(kind models.TransactionKind) string {
	switch kind {
	case models.TxReward:
		return "📈"
	case models.TxDeposit:
		return "➕"
	case models.TxWithdraw:
		return "🏧"
	case models.TxSend:
		return "🚀"
	}
	return "•"
}

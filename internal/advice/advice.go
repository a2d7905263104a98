// Package advice turns one month of transactions into a single canned
// message. Rules are an ordered list evaluated first-match-wins, so the
// priority order is data, not control flow, and can be tested on its own.
package advice

import (
	"fmt"

	"shygyn/internal/core"
)

// Spending thresholds, in whole tenge, that trip the category rules.
const (
	CoffeeThreshold        core.Money = 15000
	EntertainmentThreshold core.Money = 25000
	FoodThreshold          core.Money = 50000
	TransportThreshold     core.Money = 20000
)

// MinTransactions is the minimum number of records in a month before any
// spending rule is considered.
const MinTransactions = 2

// Input is the precomputed view of one month that rules match against.
type Input struct {
	Count        int
	TotalExpense core.Money
	ByCategory   []core.CategoryAmount
}

// Rule pairs a predicate with its two message variants. Blunt is the
// humorous wording, Neutral the advisory one; DisplayMode picks between
// them at render time.
type Rule struct {
	Name    string
	Applies func(Input) bool
	Blunt   func(Input) string
	Neutral func(Input) string
}

// NewInput derives the rule input from a month's transactions.
func NewInput(monthTxs []core.Transaction) Input {
	in := Input{
		Count:      len(monthTxs),
		ByCategory: core.CategoryTotals(monthTxs),
	}
	for _, row := range in.ByCategory {
		in.TotalExpense += row.Amount
	}
	return in
}

func (in Input) categoryTotal(c core.Category) core.Money {
	for _, row := range in.ByCategory {
		if row.Category == c {
			return row.Amount
		}
	}
	return 0
}

// topCategory returns the largest expense category, if any. Ties were
// already resolved by CategoryTotals (first encountered wins).
func (in Input) topCategory() (core.CategoryAmount, bool) {
	if len(in.ByCategory) == 0 {
		return core.CategoryAmount{}, false
	}
	return in.ByCategory[0], true
}

func thresholdRule(name string, cat core.Category, threshold core.Money, blunt, neutral string) Rule {
	return Rule{
		Name: name,
		Applies: func(in Input) bool {
			return in.categoryTotal(cat) >= threshold
		},
		Blunt: func(in Input) string {
			return fmt.Sprintf(blunt, in.categoryTotal(cat).Format())
		},
		Neutral: func(in Input) string {
			return fmt.Sprintf(neutral, in.categoryTotal(cat).Format())
		},
	}
}

// Rules returns the rule chain in evaluation order. The final rule always
// applies, so evaluation never falls through.
func Rules() []Rule {
	sameBoth := func(msg string) (func(Input) string, func(Input) string) {
		f := func(Input) string { return msg }
		return f, f
	}

	needData, needDataN := sameBoth("Add at least 2-3 records and I will have something to say.")
	noExpense, noExpenseN := sameBoth("No expenses this month. Strong! 😄")
	steady, steadyN := sameBoth("You are doing fine. A limit on one category would make it even easier.")

	return []Rule{
		{
			Name:    "need-more-data",
			Applies: func(in Input) bool { return in.Count < MinTransactions },
			Blunt:   needData,
			Neutral: needDataN,
		},
		{
			Name:    "no-expenses",
			Applies: func(in Input) bool { return in.TotalExpense == 0 },
			Blunt:   noExpense,
			Neutral: noExpenseN,
		},
		thresholdRule("coffee", core.CategoryCoffee, CoffeeThreshold,
			"%s went on coffee and tea… did you sign a contract with the coffee shop? 😄",
			"Coffee and tea took %s. Dropping to one cup a day adds up over a month."),
		thresholdRule("entertainment", core.CategoryEntertainment, EntertainmentThreshold,
			"%s on entertainment 🤝 fun is great, but so is a balance 😄",
			"Entertainment spending is high at %s. Try a weekly limit."),
		thresholdRule("food", core.CategoryFood, FoodThreshold,
			"%s on food… is this a hunger championship? 😅 Packing lunch once or twice saves plenty.",
			"Food spending is high at %s. Eating from home twice a week helps."),
		thresholdRule("transport", core.CategoryTransport, TransportThreshold,
			"%s went on transport. The taxis must think you are a VIP 😄",
			"Transport spending is high at %s. Try a public-transport or walking day."),
		{
			Name:    "top-category",
			Applies: func(in Input) bool { _, ok := in.topCategory(); return ok },
			Blunt: func(in Input) string {
				top, _ := in.topCategory()
				return fmt.Sprintf("This month's champion is %s: %s. Your money keeps running there 😄",
					top.Category, top.Amount.Format())
			},
			Neutral: func(in Input) string {
				top, _ := in.topCategory()
				return fmt.Sprintf("Biggest expense: %s — %s. Put a limit on that category.",
					top.Category, top.Amount.Format())
			},
		},
		{
			Name:    "steady",
			Applies: func(Input) bool { return true },
			Blunt:   steady,
			Neutral: steadyN,
		},
	}
}

// Generate evaluates the rule chain over one month's transactions and
// renders the first matching rule in the requested tone. Output is fully
// deterministic for a given state.
func Generate(monthTxs []core.Transaction, blunt bool) string {
	in := NewInput(monthTxs)
	for _, r := range Rules() {
		if !r.Applies(in) {
			continue
		}
		if blunt {
			return r.Blunt(in)
		}
		return r.Neutral(in)
	}
	// Unreachable: the last rule always applies.
	return ""
}

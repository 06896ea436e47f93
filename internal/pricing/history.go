package pricing

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HistoryLimit bounds how many calculations a ledger keeps.
const HistoryLimit = 10

// Line is one product line of a calculation.
type Line struct {
	ProductID string `json:"productId,omitempty"`
	Name      string `json:"name,omitempty"`
	Quantity  int64  `json:"quantity"`
	UnitPrice Money  `json:"unitPrice"`
	UnitCost  Money  `json:"unitCost"`
}

// Inputs captures everything needed to reproduce a calculation.
type Inputs struct {
	Lines    []Line      `json:"lines"`
	Markup   Markup      `json:"markup,omitempty"`
	Discount Adjustment  `json:"discount"`
	Fee      *Adjustment `json:"fee,omitempty"`
	Rounding bool        `json:"rounding"`
}

// Base sums quantity times unit price across lines.
func (in Inputs) Base() Money {
	total, _ := sumLines(in.Lines, func(l Line) Money { return l.UnitPrice })
	return total
}

// Cost sums quantity times unit cost across lines.
func (in Inputs) Cost() Money {
	total, _ := sumLines(in.Lines, func(l Line) Money { return l.UnitCost })
	return total
}

// sumLines saturates instead of wrapping and reports whether the total is exact.
func sumLines(lines []Line, unit func(Line) Money) (Money, bool) {
	var total Money
	exact := true
	for _, l := range lines {
		v, ok := mulMoney(l.Quantity, unit(l))
		exact = exact && ok
		total, ok = addMoney(total, v)
		exact = exact && ok
	}
	return total, exact
}

// Validate rejects inputs whose base, cost or adjustments leave the supported range.
func (in Inputs) Validate() error {
	for _, unit := range []func(Line) Money{
		func(l Line) Money { return l.UnitPrice },
		func(l Line) Money { return l.UnitCost },
	} {
		total, ok := sumLines(in.Lines, unit)
		if !ok || total > MaxAmount || total < -MaxAmount {
			return ErrAmountOutOfRange
		}
	}
	if err := validateAdjustment(in.Discount); err != nil {
		return err
	}
	if in.Fee != nil {
		return validateAdjustment(*in.Fee)
	}
	return nil
}

var (
	maxAmountDecimal  = decimal.NewFromInt(MaxAmount)
	maxPercentDecimal = decimal.NewFromInt(MaxPercent)
)

func validateAdjustment(a Adjustment) error {
	limit := maxAmountDecimal
	if a.IsPercentage() {
		limit = maxPercentDecimal
	}
	if a.Value.Abs().GreaterThan(limit) {
		return ErrAmountOutOfRange
	}
	return nil
}

// Cascade builds the step configuration described by the inputs. A nil fee means
// the channel fee is disabled.
func (in Inputs) Cascade() Cascade {
	steps := make([]Step, 0, 3)
	if !in.Markup.IsNormal() {
		steps = append(steps, MarkupStep(in.Markup))
	}
	steps = append(steps, DiscountStep(in.Discount))
	if in.Fee != nil {
		steps = append(steps, FeeStep(*in.Fee))
	}
	return Cascade{Steps: steps, Rounding: in.Rounding}
}

// Evaluate runs the cascade and the profitability check for the inputs.
func Evaluate(in Inputs) (Breakdown, Profit) {
	b := in.Cascade().Apply(in.Base())
	return b, Profitability(b.Final, in.Cost())
}

// Entry is an immutable snapshot of one calculation.
type Entry struct {
	ID         string    `json:"id"`
	Calculator string    `json:"calculator"`
	Inputs     Inputs    `json:"inputs"`
	Breakdown  Breakdown `json:"breakdown"`
	Profit     Profit    `json:"profit"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewEntry evaluates in and snapshots the result.
func NewEntry(calculator string, in Inputs, at time.Time) Entry {
	in = in.clone()
	b, p := Evaluate(in)
	return Entry{
		ID:         uuid.NewString(),
		Calculator: calculator,
		Inputs:     in,
		Breakdown:  b,
		Profit:     p,
		CreatedAt:  at,
	}
}

// clone copies the slice and pointer fields so the copy shares nothing with in.
func (in Inputs) clone() Inputs {
	in.Lines = slices.Clone(in.Lines)
	if in.Fee != nil {
		fee := *in.Fee
		in.Fee = &fee
	}
	return in
}

// Replay recomputes the breakdown from the stored inputs.
func (e Entry) Replay() Breakdown {
	return e.Inputs.Cascade().Apply(e.Inputs.Base())
}

// Ledger keeps the most recent calculations in a fixed-size ring.
type Ledger struct {
	mu   sync.Mutex
	buf  [HistoryLimit]Entry
	head int
	n    int
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Push records e, evicting the oldest entry once the ledger is full.
func (l *Ledger) Push(e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf[l.head] = e
	l.head = (l.head + 1) % HistoryLimit
	if l.n < HistoryLimit {
		l.n++
	}
}

// Entries returns copies of the recorded calculations, most recent first. Changing
// a returned entry never reaches the ledger.
func (l *Ledger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, 0, l.n)
	for i := 0; i < l.n; i++ {
		idx := (l.head - 1 - i + HistoryLimit) % HistoryLimit
		e := l.buf[idx]
		e.Inputs = e.Inputs.clone()
		out = append(out, e)
	}
	return out
}

// Len reports how many entries are held.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.n
}

package pricing

// Stage identifies where a step sits in the cascade. Stages always run in this order.
type Stage int

const (
	StageMarkup Stage = iota
	StageDiscount
	StageFee
)

func (s Stage) String() string {
	switch s {
	case StageMarkup:
		return "markup"
	case StageDiscount:
		return "discount"
	case StageFee:
		return "fee"
	default:
		return "unknown"
	}
}

var stageOrder = []Stage{StageMarkup, StageDiscount, StageFee}

// Step is one adjustment applied at a given stage.
type Step struct {
	Stage      Stage
	Adjustment Adjustment
}

// MarkupStep uplifts the running amount by the markup percentage.
func MarkupStep(m Markup) Step {
	return Step{Stage: StageMarkup, Adjustment: Adjustment{Kind: KindPercentage, Value: m.Percent()}}
}

// DiscountStep deducts a discount from the running amount.
func DiscountStep(a Adjustment) Step {
	return Step{Stage: StageDiscount, Adjustment: a}
}

// FeeStep deducts a sales-channel fee from the discounted amount.
func FeeStep(a Adjustment) Step {
	return Step{Stage: StageFee, Adjustment: a}
}

// Breakdown carries every intermediate amount of a cascade run.
type Breakdown struct {
	Base               Money `json:"base"`
	MarkupAmount       Money `json:"markupAmount"`
	MarkedUp           Money `json:"markedUp"`
	DiscountAmount     Money `json:"discountAmount"`
	AfterDiscount      Money `json:"afterDiscount"`
	FeeAmount          Money `json:"feeAmount"`
	BeforeRounding     Money `json:"beforeRounding"`
	RoundingAdjustment Money `json:"roundingAdjustment"`
	Final              Money `json:"final"`
	Rounded            bool  `json:"rounded"`
}

// Cascade is an ordered markup, discount, fee and rounding configuration.
type Cascade struct {
	Steps    []Step
	Rounding bool
}

// Apply runs the cascade over base. It never clamps: a discount larger than the
// base yields a negative amount which the profit classification then reports.
// Amounts saturate at the int64 limits; Inputs.Validate keeps real inputs far from them.
func (c Cascade) Apply(base Money) Breakdown {
	b := Breakdown{Base: base}
	current := base
	for _, stage := range stageOrder {
		for _, step := range c.Steps {
			if step.Stage != stage {
				continue
			}
			amount := step.Adjustment.Amount(current)
			switch stage {
			case StageMarkup:
				current = satAdd(current, amount)
				b.MarkupAmount = satAdd(b.MarkupAmount, amount)
			case StageDiscount:
				current = satSub(current, amount)
				b.DiscountAmount = satAdd(b.DiscountAmount, amount)
			case StageFee:
				current = satSub(current, amount)
				b.FeeAmount = satAdd(b.FeeAmount, amount)
			}
		}
		switch stage {
		case StageMarkup:
			b.MarkedUp = current
		case StageDiscount:
			b.AfterDiscount = current
		case StageFee:
			b.BeforeRounding = current
		}
	}
	b.Final = current
	if c.Rounding {
		b.Final = RoundToPricingConvention(current)
		b.RoundingAdjustment = satSub(b.Final, current)
		b.Rounded = true
	}
	return b
}

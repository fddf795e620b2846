package output

// DefaultAssumptions lists the pricing conventions rendered in detailed outputs.
var DefaultAssumptions = []string{
	"Amounts are in VND and unrounded until display",
	"Rates are annual fractions of sum insured, looked up by age bucket, geography and tier",
	"Duration, co-pay, group-size and loss-ratio factors apply in that order",
	"Final premium is the greater of the discounted premium and the adjusted minimum premium",
	"Loss-ratio discounts apply only to continuous renewals",
}

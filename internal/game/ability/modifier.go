package ability

// Op defines how a modifier combines into an attribute's current value.
type Op int8

const (
	OpAdd      Op = iota // additive bonus, summed
	OpMultiply           // bias-accumulated multiplier around 1.0
	OpDivide             // bias-accumulated divisor around 1.0
	OpOverride           // last one wins, short-circuits everything else
)

// String returns the content-file spelling of the op.
func (o Op) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpMultiply:
		return "mul"
	case OpDivide:
		return "div"
	case OpOverride:
		return "override"
	default:
		return "unknown"
	}
}

// ScalableValue is a magnitude that scales linearly with effect level:
// At(level) = Base + PerLevel*(level-1).
type ScalableValue struct {
	Base     float64
	PerLevel float64
}

// At resolves the magnitude for the given level. Levels below 1 are
// treated as 1.
func (v ScalableValue) At(level int32) float64 {
	if level < 1 {
		level = 1
	}
	return v.Base + v.PerLevel*float64(level-1)
}

// Flat is shorthand for a level-independent magnitude.
func Flat(v float64) ScalableValue {
	return ScalableValue{Base: v}
}

// Modifier is one attribute modification carried by an effect definition.
// Attribute is a name resolved against the target at application time; a
// miss makes the modifier a no-op with a warning.
type Modifier struct {
	Attribute string
	Op        Op
	Value     ScalableValue
}

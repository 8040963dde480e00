package ast

import "scenelang/diag"

// ValueKind discriminates the closed set of property value variants.
type ValueKind int

const (
	ValNone ValueKind = iota
	ValString
	ValNumber
	ValPair
	ValPercentPair
	ValPoints
	ValDimension
	ValDimensionPair
	ValVarRef
	ValLayoutProps
)

// Pair is a plain numeric pair (position, size, ...).
type Pair struct{ X, Y float64 }

// DimKind discriminates a Dimension's three forms.
type DimKind int

const (
	DimPx DimKind = iota
	DimPercent
	DimAuto
)

// Dimension is one of absolute pixels, percent of parent, or auto. It
// always resolves to a finite number given a parent extent (see package
// layout), so there is no "undefined" dimension state.
type Dimension struct {
	Kind DimKind
	N    float64
}

// Resolve returns the absolute value of d against a parent extent.
// autoDefault is used verbatim when Kind is DimAuto; callers that need a
// content-derived auto size compute it themselves and never call Resolve
// for that case.
func (d Dimension) Resolve(parent, autoDefault float64) float64 {
	switch d.Kind {
	case DimPx:
		return d.N
	case DimPercent:
		return parent * d.N / 100
	default:
		return autoDefault
	}
}

// DimensionPair is a resolved width/height dimension pair.
type DimensionPair struct{ W, H Dimension }

// VarRef is a deferred variable reference recorded by the parser instead
// of being inlined; substitution happens in package resolve.
type VarRef struct {
	Name string
	Pos  diag.Pos
}

// Value is a property value: exactly one of its payload fields is
// meaningful, selected by Kind. See the package doc comment on Node for
// why Go encodes the grammar's sum types this way.
type Value struct {
	Kind    ValueKind
	Str     string
	Num     float64
	Pair    Pair
	Points  []Pair
	Dim     Dimension
	DimPair DimensionPair
	Ref     VarRef
	Layout  *LayoutProps
}

// NoneValue is the canonical empty value.
var NoneValue = Value{Kind: ValNone}

func StringValue(s string) Value { return Value{Kind: ValString, Str: s} }
func NumberValue(n float64) Value { return Value{Kind: ValNumber, Num: n} }
func PairValue(x, y float64) Value { return Value{Kind: ValPair, Pair: Pair{X: x, Y: y}} }
func PercentPairValue(x, y float64) Value {
	return Value{Kind: ValPercentPair, Pair: Pair{X: x, Y: y}}
}
func PointsValue(pts []Pair) Value { return Value{Kind: ValPoints, Points: pts} }
func DimensionValue(d Dimension) Value { return Value{Kind: ValDimension, Dim: d} }
func DimensionPairValue(w, h Dimension) Value {
	return Value{Kind: ValDimensionPair, DimPair: DimensionPair{W: w, H: h}}
}
func VarRefValue(name string, pos diag.Pos) Value {
	return Value{Kind: ValVarRef, Ref: VarRef{Name: name, Pos: pos}}
}
func LayoutPropsValue(lp LayoutProps) Value { return Value{Kind: ValLayoutProps, Layout: &lp} }

// IsNone reports whether v carries no payload.
func (v Value) IsNone() bool { return v.Kind == ValNone }

// IsVarRef reports whether v is a deferred variable reference still
// awaiting resolution.
func (v Value) IsVarRef() bool { return v.Kind == ValVarRef }

package tac

import (
	"go/constant"
	"go/token"
	"math"

	"github.com/shadow-language/shadowc/internal/types"
)

var integralBits = map[string]uint{
	types.NameByte:   8,
	types.NameUByte:  8,
	types.NameShort:  16,
	types.NameUShort: 16,
	types.NameInt:    32,
	types.NameUInt:   32,
	types.NameCode:   32,
	types.NameLong:   64,
	types.NameULong:  64,
}

// checkLiteral verifies that v is a representable constant of type t.
func checkLiteral(t types.Type, v constant.Value) error {
	if t == nil {
		return newError(CodeOperandType, KindLiteral, "literal has no type")
	}
	if types.IsNull(t) || v == nil {
		if types.IsNull(t) && v == nil {
			return nil
		}
		return newError(CodeOperandType, KindLiteral, "null literal must have the null type, got %s", t)
	}
	ok := false
	switch {
	case types.IsBoolean(t):
		ok = v.Kind() == constant.Bool
	case types.IsIntegral(t):
		ok = v.Kind() == constant.Int && fitsIntegral(v, integralBits[t.Name()], types.IsUnsigned(t))
	case types.IsNumerical(t):
		ok = v.Kind() == constant.Int || v.Kind() == constant.Float
		if ok && t.Name() == types.NameFloat {
			f, _ := constant.Float64Val(v)
			ok = math.Abs(f) <= math.MaxFloat32
		}
	case types.IsString(t):
		ok = v.Kind() == constant.String
	}
	if !ok {
		return newError(CodeOperandType, KindLiteral, "%s is not a %s constant", v.ExactString(), t)
	}
	return nil
}

func fitsIntegral(v constant.Value, bits uint, unsigned bool) bool {
	var lo, hi constant.Value
	if unsigned {
		lo = constant.MakeInt64(0)
		hi = constant.MakeUint64(math.MaxUint64 >> (64 - bits))
	} else {
		lo = constant.MakeInt64(math.MinInt64 >> (64 - bits))
		hi = constant.MakeInt64(math.MaxInt64 >> (64 - bits))
	}
	return constant.Compare(v, token.GEQ, lo) && constant.Compare(v, token.LEQ, hi)
}

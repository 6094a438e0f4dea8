package harness

import (
	"fmt"
	"strings"

	"github.com/shadow-language/shadowc/internal/types"
)

// strictSubtype is implemented by class types.
type strictSubtype interface {
	IsStrictSubtype(other types.Type) bool
}

// evaluateJudgment answers one type-model query.
func evaluateJudgment(r *types.Resolver, j Judgment) (JudgmentOutcome, error) {
	out := JudgmentOutcome{Expect: j.Expect}
	switch j.Op {
	case JudgeSubtype, JudgeStrictSubtype, JudgeEqual, JudgeSamePackageAndName:
		left, err := r.Resolve(j.Left)
		if err != nil {
			return out, fmt.Errorf("left: %w", err)
		}
		right, err := r.Resolve(j.Right)
		if err != nil {
			return out, fmt.Errorf("right: %w", err)
		}
		out.Query = fmt.Sprintf("%s %s %s", j.Left, j.Op, j.Right)
		switch j.Op {
		case JudgeSubtype:
			out.Got = left.IsSubtype(right)
		case JudgeStrictSubtype:
			if s, ok := left.(strictSubtype); ok {
				out.Got = s.IsStrictSubtype(right)
			} else {
				out.Got = left.IsSubtype(right) && !types.Equal(left, right)
			}
		case JudgeEqual:
			out.Got = types.Equal(left, right)
		default:
			out.Got = types.SamePackageAndName(left, right)
		}

	case JudgeCanAccept, JudgeMatches:
		declared, err := resolveSequence(r, j.Declared)
		if err != nil {
			return out, fmt.Errorf("declared: %w", err)
		}
		args, err := resolveSequence(r, j.Args)
		if err != nil {
			return out, fmt.Errorf("args: %w", err)
		}
		out.Query = fmt.Sprintf("(%s) %s (%s)", strings.Join(j.Declared, ", "), j.Op, strings.Join(j.Args, ", "))
		if j.Op == JudgeCanAccept {
			out.Got = declared.CanAccept(args)
		} else {
			out.Got = declared.Matches(args)
		}

	default:
		return out, fmt.Errorf("unknown judgment %q", j.Op)
	}
	return out, nil
}

// resolveSequence builds a sequence from type names. A name may carry
// leading modifiers, as in "nullable String".
func resolveSequence(r *types.Resolver, names []string) (*types.SequenceType, error) {
	seq := types.NewSequenceType()
	for _, name := range names {
		t, mods, err := resolveModified(r, name)
		if err != nil {
			return nil, err
		}
		seq.Append(t, mods)
	}
	return seq, nil
}

func resolveModified(r *types.Resolver, name string) (types.Type, types.Modifiers, error) {
	var mods types.Modifiers
	fields := strings.Fields(name)
	for len(fields) > 1 {
		m, ok := types.ParseModifier(fields[0])
		if !ok {
			break
		}
		mods |= m
		fields = fields[1:]
	}
	t, err := r.Resolve(strings.Join(fields, " "))
	if err != nil {
		return nil, 0, err
	}
	return t, mods, nil
}

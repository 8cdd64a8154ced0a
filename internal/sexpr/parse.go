package sexpr

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/hashicorp/go-multierror"

	"github.com/sdql-eqsat/eqsat/internal/term"
)

// ErrParse is the sentinel wrapped by every parse failure, so callers can
// distinguish malformed input from other I/O errors with errors.Is.
var ErrParse = errors.New("sexpr: parse error")

// sexp is an intermediate, fully generic parenthesized-list tree: parsing
// proceeds in two stages (tokens -> sexp -> term.Named) so that grammar
// errors (wrong head, wrong arity) can all be collected into one
// multierror.Error instead of aborting at the first problem, matching the
// aggregation idiom used for nomad's config validation.
type sexp struct {
	atom     string
	isAtom   bool
	list     []*sexp
	line     int
	col      int
}

// Parse reads a full S-expression program (a single top-level form) and
// returns its named-surface-syntax tree. Multiple structural problems in
// the input are all reported together.
func Parse(src []byte) (*term.Named, error) {
	forms, err := parseForms(src)
	if err != nil {
		return nil, err
	}
	if len(forms) != 1 {
		return nil, fmt.Errorf("%w: expected exactly one top-level form, found %d", ErrParse, len(forms))
	}
	var errs *multierror.Error
	named := toNamedForm(forms[0], &errs)
	if errs.ErrorOrNil() != nil {
		return nil, errs.ErrorOrNil()
	}
	return named, nil
}

func parseForms(src []byte) ([]*sexp, error) {
	l := newLexer(src)
	var forms []*sexp
	var errs *multierror.Error
	for {
		tok := l.next()
		if tok.kind == tokEOF {
			break
		}
		if tok.kind == tokRParen {
			errs = multierror.Append(errs, fmt.Errorf("%w: %d:%d: unexpected )", ErrParse, tok.line, tok.col))
			continue
		}
		f, ferr := parseOne(l, tok)
		if ferr != nil {
			errs = multierror.Append(errs, ferr)
			continue
		}
		forms = append(forms, f)
	}
	if l.err != nil {
		errs = multierror.Append(errs, fmt.Errorf("%w: %v", ErrParse, l.err))
	}
	return forms, errs.ErrorOrNil()
}

func parseOne(l *lexer, first token) (*sexp, error) {
	switch first.kind {
	case tokAtom:
		return &sexp{atom: first.text, isAtom: true, line: first.line, col: first.col}, nil
	case tokLParen:
		node := &sexp{line: first.line, col: first.col}
		for {
			tok := l.next()
			if tok.kind == tokEOF {
				return nil, fmt.Errorf("%w: %d:%d: unterminated list", ErrParse, first.line, first.col)
			}
			if tok.kind == tokRParen {
				return node, nil
			}
			child, err := parseOne(l, tok)
			if err != nil {
				return nil, err
			}
			node.list = append(node.list, child)
		}
	default:
		return nil, fmt.Errorf("%w: %d:%d: unexpected token", ErrParse, first.line, first.col)
	}
}

func isNumber(s string) (int32, bool) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(n), true
}

var headOps = map[string]term.Op{
	"+": term.Add, "-": term.Sub, "*": term.Mul, "==": term.Eq,
	"get": term.Get, "sing": term.Sing, "range": term.Range,
	"subarray": term.SubArray, "ifthen": term.IfThen, "apply": term.App,
	"binop": term.Binop, "unique": term.Unique,
}

// toNamedForm converts one parsed s-expression into a Named tree, appending
// any problems found to errs instead of stopping at the first one.
func toNamedForm(f *sexp, errs **multierror.Error) *term.Named {
	if f.isAtom {
		if n, ok := isNumber(f.atom); ok {
			return &term.Named{Op: term.Num, Num: n}
		}
		return &term.Named{Op: term.Sym, Sym: f.atom}
	}
	if len(f.list) == 0 {
		*errs = multierror.Append(*errs, fmt.Errorf("%w: %d:%d: empty form", ErrParse, f.line, f.col))
		return nil
	}
	head := f.list[0]
	if !head.isAtom {
		*errs = multierror.Append(*errs, fmt.Errorf("%w: %d:%d: head must be an identifier", ErrParse, f.line, f.col))
		return nil
	}
	args := f.list[1:]

	switch head.atom {
	case "var":
		if len(args) != 1 || !args[0].isAtom {
			*errs = multierror.Append(*errs, fmt.Errorf("%w: %d:%d: var takes one identifier", ErrParse, f.line, f.col))
			return nil
		}
		return &term.Named{Op: term.Var, Name: args[0].atom}
	case "let":
		if len(args) != 3 || !args[0].isAtom {
			*errs = multierror.Append(*errs, fmt.Errorf("%w: %d:%d: let takes NAME BOUND BODY", ErrParse, f.line, f.col))
			return nil
		}
		bound := toNamedForm(args[1], errs)
		body := toNamedForm(args[2], errs)
		return &term.Named{Op: term.Let, Binders: []string{args[0].atom}, Kids: []*term.Named{bound, body}}
	case "lambda":
		if len(args) != 2 || !args[0].isAtom {
			*errs = multierror.Append(*errs, fmt.Errorf("%w: %d:%d: lambda takes NAME BODY", ErrParse, f.line, f.col))
			return nil
		}
		body := toNamedForm(args[1], errs)
		return &term.Named{Op: term.Lambda, Binders: []string{args[0].atom}, Kids: []*term.Named{body}}
	case "sum":
		if len(args) != 4 || !args[0].isAtom || !args[1].isAtom {
			*errs = multierror.Append(*errs, fmt.Errorf("%w: %d:%d: sum takes KEY VAL RANGE BODY", ErrParse, f.line, f.col))
			return nil
		}
		rng := toNamedForm(args[2], errs)
		body := toNamedForm(args[3], errs)
		return &term.Named{Op: term.Sum, Binders: []string{args[0].atom, args[1].atom}, Kids: []*term.Named{rng, body}}
	case "merge":
		if len(args) != 6 || !args[0].isAtom || !args[1].isAtom || !args[2].isAtom {
			*errs = multierror.Append(*errs, fmt.Errorf("%w: %d:%d: merge takes KEY1 KEY2 VAL RANGE1 RANGE2 BODY", ErrParse, f.line, f.col))
			return nil
		}
		r1 := toNamedForm(args[3], errs)
		r2 := toNamedForm(args[4], errs)
		body := toNamedForm(args[5], errs)
		// store binders in semantic (k1, value, k2) order; surface order is k1,k2,val.
		return &term.Named{Op: term.Merge, Binders: []string{args[0].atom, args[2].atom, args[1].atom}, Kids: []*term.Named{r1, r2, body}}
	case "binop":
		if len(args) != 3 || !args[0].isAtom {
			*errs = multierror.Append(*errs, fmt.Errorf("%w: %d:%d: binop takes OP A B", ErrParse, f.line, f.col))
			return nil
		}
		a := toNamedForm(args[1], errs)
		b := toNamedForm(args[2], errs)
		return &term.Named{Op: term.Binop, Sym: args[0].atom, Kids: []*term.Named{a, b}}
	}

	if op, ok := headOps[head.atom]; ok {
		want := op.Arity()
		if len(args) != want {
			*errs = multierror.Append(*errs, fmt.Errorf("%w: %d:%d: %s takes %d argument(s)", ErrParse, f.line, f.col, head.atom, want))
			return nil
		}
		kids := make([]*term.Named, len(args))
		for i, a := range args {
			kids[i] = toNamedForm(a, errs)
		}
		return &term.Named{Op: op, Kids: kids}
	}
	*errs = multierror.Append(*errs, fmt.Errorf("%w: %d:%d: unknown head %q", ErrParse, f.line, f.col, head.atom))
	return nil
}

// Package rules holds the SDQL rewrite catalogue, published as two
// variants — Fine and Coarse — built on top of packages pattern and rule.
//
// Grounded on pattern.go's clause catalogue style (a flat list
// of named clauses assembled into a rule set at package-init time); the
// actual rewrites come from the SDQL equality-saturation literature this
// module reimplements, expressed here as pattern/rule.Rule values rather
// than copied verbatim from any one source.
package rules

import (
	"github.com/sdql-eqsat/eqsat/internal/pattern"
	"github.com/sdql-eqsat/eqsat/internal/rule"
	"github.com/sdql-eqsat/eqsat/internal/term"
)

var (
	p     = pattern.PVar
	lit   = pattern.PLitVar
	num   = pattern.PNum
	sym   = pattern.PSym
	node  = pattern.PNode
	binop = pattern.PBinop
)

// algebraic holds the pure algebraic identities: associativity, additive
// and subtractive identities, and equality commutativity.
func algebraic() []rule.Rule {
	return []rule.Rule{
		{
			Name: "mul-assoc-l",
			LHS:  node(term.Mul, node(term.Mul, p("a"), p("b")), p("c")),
			Apply: rule.Instantiate(
				node(term.Mul, p("a"), node(term.Mul, p("b"), p("c")))),
		},
		{
			Name: "mul-assoc-r",
			LHS:  node(term.Mul, p("a"), node(term.Mul, p("b"), p("c"))),
			Apply: rule.Instantiate(
				node(term.Mul, node(term.Mul, p("a"), p("b")), p("c"))),
		},
		{
			Name:  "sub-self",
			LHS:   node(term.Sub, p("e"), p("e")),
			Apply: rule.Instantiate(num(0)),
		},
		{
			Name:  "add-zero",
			LHS:   node(term.Add, p("e"), num(0)),
			Apply: rule.Instantiate(p("e")),
		},
		{
			Name:  "sub-zero",
			LHS:   node(term.Sub, p("e"), num(0)),
			Apply: rule.Instantiate(p("e")),
		},
		{
			Name:  "eq-comm",
			LHS:   node(term.Eq, p("a"), p("b")),
			Apply: rule.Instantiate(node(term.Eq, p("b"), p("a"))),
		},
	}
}

// binopName pairs a fixed-arity operator with the Sym it normalizes to/from
// when wrapped in a Binop node.
type binopName struct {
	op   term.Op
	name string
}

var binopFamily = []binopName{
	{term.Mul, "*"},
	{term.Add, "+"},
	{term.Sub, "-"},
	{term.Get, "get"},
	{term.Sing, "sing"},
}

// binopNormalization rewrites each of * + - get sing both ways to and from
// (binop op a b), and unique both ways to and from (apply uniquef e).
// Canonicalizing children into this shape is what lets the let-float
// rules, which only know about the generic binop/apply shapes, reach them.
func binopNormalization() []rule.Rule {
	var rs []rule.Rule
	for _, b := range binopFamily {
		b := b
		rs = append(rs,
			rule.Rule{
				Name:  b.name + "-to-binop",
				LHS:   node(b.op, p("a"), p("b")),
				Apply: rule.Instantiate(binop(b.name, p("a"), p("b"))),
			},
			rule.Rule{
				Name:  "binop-to-" + b.name,
				LHS:   binop(b.name, p("a"), p("b")),
				Apply: rule.Instantiate(node(b.op, p("a"), p("b"))),
			},
		)
	}
	rs = append(rs,
		rule.Rule{
			Name:  "unique-to-apply",
			LHS:   node(term.Unique, p("e")),
			Apply: rule.Instantiate(node(term.App, sym("uniquef"), p("e"))),
		},
		rule.Rule{
			Name:  "apply-to-unique",
			LHS:   node(term.App, sym("uniquef"), p("e")),
			Apply: rule.Instantiate(node(term.Unique, p("e"))),
		},
	)
	return rs
}

// letFloat floats a let across the five normalized binop shapes, and
// across apply (guarded so the function position never depends on the
// let's own binder, matching "f need not depend on x" in the catalogue).
func letFloat() []rule.Rule {
	var rs []rule.Rule
	for _, b := range binopFamily {
		b := b
		rs = append(rs,
			rule.Rule{
				Name: "let-float-" + b.name + "-fwd",
				LHS:  node(term.Let, p("x"), binop(b.name, p("a"), p("b"))),
				Apply: rule.Instantiate(binop(b.name,
					node(term.Let, p("x"), p("a")),
					node(term.Let, p("x"), p("b")))),
			},
			rule.Rule{
				Name: "let-float-" + b.name + "-rev",
				LHS: binop(b.name,
					node(term.Let, p("x"), p("a")),
					node(term.Let, p("x"), p("b"))),
				Apply: rule.Instantiate(
					node(term.Let, p("x"), binop(b.name, p("a"), p("b")))),
			},
		)
	}
	rs = append(rs,
		rule.Rule{
			Name:  "let-float-apply-fwd",
			LHS:   node(term.Let, p("x"), node(term.App, p("f"), p("e"))),
			Guard: rule.Not(rule.ContainsIndex("f", 0)),
			Apply: rule.Shifted("f", 0, -1, "fs",
				node(term.App, p("fs"), node(term.Let, p("x"), p("e")))),
		},
		rule.Rule{
			Name:  "let-float-apply-rev",
			LHS:   node(term.App, p("f"), node(term.Let, p("x"), p("e"))),
			Apply: rule.Shifted("f", 0, 1, "fs",
				node(term.Let, p("x"), node(term.App, p("fs"), p("e")))),
		},
	)
	return rs
}

// conditional converts between ifthen and multiplication, including
// folding an equality guard directly into a product and pushing a
// multiplicative factor into an ifthen's consequent.
func conditional() []rule.Rule {
	return []rule.Rule{
		{
			Name:  "ifthen-to-mul",
			LHS:   node(term.IfThen, p("a"), p("b")),
			Apply: rule.Instantiate(node(term.Mul, p("a"), p("b"))),
		},
		{
			Name:  "mul-eq-to-ifthen",
			LHS:   node(term.Mul, node(term.Eq, p("a1"), p("a2")), p("b")),
			Apply: rule.Instantiate(node(term.IfThen, node(term.Eq, p("a1"), p("a2")), p("b"))),
		},
		{
			Name:  "mul-into-ifthen",
			LHS:   node(term.Mul, p("e1"), node(term.IfThen, p("e2"), p("e3"))),
			Apply: rule.Instantiate(node(term.IfThen, p("e2"), node(term.Mul, p("e1"), p("e3")))),
		},
	}
}

// betaRule is the single rule driving capture-avoiding reduction: it reads
// both operands' beta_extract witnesses and performs the substitution
// directly rather than instantiating an RHS pattern.
func betaRule() rule.Rule {
	return rule.Rule{
		Name:  "beta",
		LHS:   node(term.Let, p("e"), p("body")),
		Apply: rule.Beta("body", "e"),
	}
}

// notBound0Or1 admits a match only when varName's class does not mention
// either of a sum's two binder indices — the precondition shared by every
// sum-factorization rule.
func notBound0Or1(varName string) rule.Guard {
	return rule.Not(rule.Or(rule.ContainsIndex(varName, 0), rule.ContainsIndex(varName, 1)))
}

// sumFactorization pulls a factor that does not mention a sum's own key or
// value out of the sum, in both multiplicative argument orders and for
// sing's key position.
func sumFactorization() []rule.Rule {
	return []rule.Rule{
		{
			Name:  "sum-fact-mul-1",
			LHS:   node(term.Sum, p("r"), node(term.Mul, p("e1"), p("e2"))),
			Guard: notBound0Or1("e1"),
			Apply: rule.Shifted("e1", 0, -2, "e1s",
				node(term.Mul, p("e1s"), node(term.Sum, p("r"), p("e2")))),
		},
		{
			Name:  "sum-fact-mul-2",
			LHS:   node(term.Sum, p("r"), node(term.Mul, p("e2"), p("e1"))),
			Guard: notBound0Or1("e1"),
			Apply: rule.Shifted("e1", 0, -2, "e1s",
				node(term.Mul, p("e1s"), node(term.Sum, p("r"), p("e2")))),
		},
		{
			Name:  "sum-fact-sing",
			LHS:   node(term.Sum, p("r"), node(term.Sing, p("e1"), p("e2"))),
			Guard: notBound0Or1("e1"),
			Apply: rule.Shifted("e1", 0, -2, "e1s",
				node(term.Sing, p("e1s"), node(term.Sum, p("r"), p("e2")))),
		},
	}
}

// sumDefactorizationMul is the multiplicative de-factorization rule,
// carried by both rule-set variants.
func sumDefactorizationMul() rule.Rule {
	return rule.Rule{
		Name: "sum-fact-inv-mul",
		LHS:  node(term.Mul, p("e1"), node(term.Sum, p("r"), p("e2"))),
		Apply: rule.Shifted("e1", 0, 2, "e1s",
			node(term.Sum, p("r"), node(term.Mul, p("e1s"), p("e2")))),
	}
}

// sumDefactorizationSing is the sing de-factorization rule (sum-fact-inv-3
// in the catalogue's naming), present only in the fine rule set.
func sumDefactorizationSing() rule.Rule {
	return rule.Rule{
		Name: "sum-fact-inv-3",
		LHS:  node(term.Sing, p("e1"), node(term.Sum, p("r"), p("e2"))),
		Apply: rule.Shifted("e1", 0, 2, "e1s",
			node(term.Sum, p("r"), node(term.Sing, p("e1s"), p("e2")))),
	}
}

// verticalSumFusion fuses a sum over a singleton-built dictionary into one
// sum plus two nested lets, reusing the outer iterator's key as the inner
// singleton's key, for both the plain-key and unique-wrapped-key forms.
func verticalSumFusion() []rule.Rule {
	fuse := func(name string, key pattern.Pattern) rule.Rule {
		return rule.Rule{
			Name: name,
			LHS: node(term.Sum,
				node(term.Sum, p("r"), node(term.Sing, key, p("body1"))),
				p("body2")),
			Apply: rule.ShiftMany(
				[]rule.ShiftSpec{
					{SourceVar: "body1", Cutoff: 0, Delta: 1, NewVar: "body1s"},
					{SourceVar: "body2", Cutoff: 0, Delta: 2, NewVar: "body2s"},
				},
				node(term.Sum, p("r"),
					node(term.Let, key,
						node(term.Let, p("body1s"), p("body2s")))),
			),
		}
	}
	return []rule.Rule{
		fuse("sum-vert-fuse-1", lit(1)),
		fuse("sum-vert-fuse-1-unique", node(term.Unique, lit(1))),
	}
}

// getSumVertFuse1 is the get-over-sum fusion rule, stated explicitly only
// in the coarse rule set (the fine set derives the same rewrite from the
// general vertical fusion rule composed with the get/sum duality rules).
func getSumVertFuse1() rule.Rule {
	return rule.Rule{
		Name: "get-sum-vert-fuse-1",
		LHS: node(term.Get,
			node(term.Sum, p("r"), node(term.Sing, lit(1), p("body1"))),
			p("body2")),
		Apply: rule.ShiftMany(
			[]rule.ShiftSpec{{SourceVar: "r", Cutoff: 0, Delta: 1, NewVar: "rs"}},
			node(term.Let, p("body2"),
				node(term.Let, node(term.Get, p("rs"), lit(0)), p("body1"))),
		),
	}
}

// sumOverRange normalizes a range-bounded sum's equality guard to compare
// against the key index rather than the value index, carried by both rule
// sets. The optional sum-range-2 is built separately by sumRange2 and
// carried by the fine set only.
func sumOverRange() []rule.Rule {
	rs := []rule.Rule{
		{
			Name: "sum-range-1",
			LHS: node(term.Sum, node(term.Range, p("st"), p("en")),
				node(term.IfThen, node(term.Eq, lit(0), p("key")), p("body"))),
			Apply: rule.ShiftMany(
				[]rule.ShiftSpec{{SourceVar: "st", Cutoff: 0, Delta: 2, NewVar: "sts"}},
				node(term.Sum, node(term.Range, p("st"), p("en")),
					node(term.IfThen,
						node(term.Eq, lit(1), node(term.Sub, p("key"), node(term.Sub, p("sts"), num(1)))),
						p("body"))),
			),
		},
	}
	return rs
}

// sumRange2 is the optional rule that replaces a key-guarded range sum by
// lets, carried only by the fine rule set, guarded so key must not reach
// the range's own binders.
func sumRange2() rule.Rule {
	return rule.Rule{
		Name: "sum-range-2",
		LHS: node(term.Sum, node(term.Range, p("st"), p("en")),
			node(term.IfThen, node(term.Eq, lit(1), p("key")), p("body"))),
		Guard: notBound0Or1("key"),
		Apply: rule.ShiftMany(
			[]rule.ShiftSpec{
				{SourceVar: "key", Cutoff: 0, Delta: -2, NewVar: "keys"},
				{SourceVar: "st", Cutoff: 0, Delta: 1, NewVar: "sts"},
			},
			node(term.Let, p("keys"),
				node(term.Let, node(term.Add, lit(0), node(term.Sub, p("sts"), num(1))), p("body"))),
		),
	}
}

// nestedSumToMerge turns a sum-of-sums whose guard equates the two
// iterators' values into a single merge over the same two ranges.
func nestedSumToMerge() rule.Rule {
	return rule.Rule{
		Name: "nested-sum-to-merge",
		LHS: node(term.Sum, p("r"),
			node(term.Sum, p("s"), node(term.IfThen, node(term.Eq, lit(2), lit(0)), p("body")))),
		Apply: rule.ShiftMany(
			[]rule.ShiftSpec{{SourceVar: "s", Cutoff: 0, Delta: -2, NewVar: "ss"}},
			node(term.Merge, p("r"), p("ss"), node(term.Let, lit(1), p("body"))),
		),
	}
}

// getSumDuality holds the index/dictionary-duality family: turning a get
// into a guarded sum always holds (both sets carry it); the reverse
// (sum-to-get) and the range-get identity (get-range) only hold in the
// fine set, where they are stated as standalone rules rather than derived.
func getSumDuality() []rule.Rule {
	return []rule.Rule{
		{
			Name: "get-to-sum",
			LHS:  node(term.Get, p("dict"), p("key")),
			Apply: rule.Shifted("key", 0, 2, "keys",
				node(term.Sum, p("dict"), node(term.IfThen, node(term.Eq, lit(1), p("keys")), lit(0)))),
		},
	}
}

// sumToGet is the reverse of get-to-sum, fine-rule-set only.
func sumToGet() rule.Rule {
	return rule.Rule{
		Name: "sum-to-get",
		LHS: node(term.Sum, p("r"),
			node(term.IfThen, node(term.Eq, lit(1), p("body2")), p("body1"))),
		Guard: notBound0Or1("body2"),
		Apply: rule.ShiftMany(
			[]rule.ShiftSpec{
				{SourceVar: "body2", Cutoff: 0, Delta: -2, NewVar: "body2s"},
				{SourceVar: "r", Cutoff: 0, Delta: 1, NewVar: "rs"},
			},
			node(term.Let, p("body2s"),
				node(term.Let, node(term.Get, p("rs"), lit(0)), p("body1"))),
		),
	}
}

// getRange collapses a get into a range directly into arithmetic,
// fine-rule-set only.
func getRange() rule.Rule {
	return rule.Rule{
		Name:  "get-range",
		LHS:   node(term.Get, node(term.Range, p("st"), p("en")), p("idx")),
		Apply: rule.Instantiate(node(term.Add, p("idx"), node(term.Sub, p("st"), num(1)))),
	}
}

// cleanups removes a sum that only reconstructs its own range, and unwraps
// a no-op unique.
func cleanups() []rule.Rule {
	return []rule.Rule{
		{
			Name:  "sum-identity",
			LHS:   node(term.Sum, p("e"), node(term.Sing, lit(1), lit(0))),
			Apply: rule.Instantiate(p("e")),
		},
		{
			Name:  "unique-identity",
			LHS:   node(term.Unique, p("e")),
			Apply: rule.Instantiate(p("e")),
		},
	}
}

// base holds every rule common to both the coarse and fine rule sets.
func base() []rule.Rule {
	var rs []rule.Rule
	rs = append(rs, algebraic()...)
	rs = append(rs, binopNormalization()...)
	rs = append(rs, letFloat()...)
	rs = append(rs, conditional()...)
	rs = append(rs, betaRule())
	rs = append(rs, sumFactorization()...)
	rs = append(rs, sumDefactorizationMul())
	rs = append(rs, verticalSumFusion()...)
	rs = append(rs, sumOverRange()...)
	rs = append(rs, nestedSumToMerge())
	rs = append(rs, getSumDuality()...)
	rs = append(rs, cleanups()...)
	return rs
}

// Coarse returns the coarse rule-set variant: the base catalogue plus the
// explicit get-over-sum fusion rule, omitting sum-fact-inv-3, sum-to-get,
// get-range, and sum-range-2.
func Coarse() []rule.Rule {
	rs := base()
	rs = append(rs, getSumVertFuse1())
	return rs
}

// Fine returns the fine rule-set variant: the base catalogue plus
// sum-fact-inv-3, sum-range-2, sum-to-get, and get-range, omitting the
// standalone get-over-sum fusion rule (derivable from general fusion
// composed with the duality rules above).
func Fine() []rule.Rule {
	rs := base()
	rs = append(rs, sumDefactorizationSing())
	rs = append(rs, sumRange2())
	rs = append(rs, sumToGet())
	rs = append(rs, getRange())
	return rs
}

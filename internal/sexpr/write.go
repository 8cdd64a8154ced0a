package sexpr

import "github.com/sdql-eqsat/eqsat/internal/term"

// Write renders a named surface term as S-expression text terminated by a
// trailing newline, ready to be written to the output path the CLI names.
func Write(n *term.Named) []byte {
	return append([]byte(n.String()), '\n')
}

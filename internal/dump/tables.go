package dump

import (
	"fmt"
	"sort"

	"github.com/avelino/simplec/token"
)

// Tokens builds the token-stream dump table.
func Tokens(tokens []token.Token) Table {
	rows := make([][]string, 0, len(tokens))
	for _, tok := range tokens {
		rows = append(rows, []string{
			tok.Type.String(),
			tok.Literal,
			tok.Pos.String(),
		})
	}
	return Table{
		Title:   "Tokens",
		Headers: []string{"Kind", "Lexeme", "Position"},
		Rows:    rows,
	}
}

// Constants builds the constant-pool dump table.
func Constants(consts []int, addr []int) Table {
	rows := make([][]string, 0, len(consts))
	for i, v := range consts {
		address := "?"
		if i < len(addr) {
			address = fmt.Sprintf("%02d", addr[i])
		}
		rows = append(rows, []string{fmt.Sprintf("C%d", i), fmt.Sprintf("%d", v), address})
	}
	return Table{
		Title:   "Constants",
		Headers: []string{"Slot", "Value", "Address"},
		Rows:    rows,
	}
}

// Variables builds the variable-resolution dump table.
func Variables(vars []rune, values map[rune]int, addr map[rune]int) Table {
	rows := make([][]string, 0, len(vars))
	for _, name := range vars {
		value := "-7777 (uninitialized)"
		if v, ok := values[name]; ok {
			value = fmt.Sprintf("%d", v)
		}
		address := "?"
		if a, ok := addr[name]; ok {
			address = fmt.Sprintf("%02d", a)
		}
		rows = append(rows, []string{string(name), value, address})
	}
	return Table{
		Title:   "Variables",
		Headers: []string{"Name", "Known value", "Address"},
		Rows:    rows,
	}
}

// LineEquivalence builds the line-equivalence-map dump table, sorted by
// source line number.
func LineEquivalence(equiv map[int]int) Table {
	lines := make([]int, 0, len(equiv))
	for line := range equiv {
		lines = append(lines, line)
	}
	sort.Ints(lines)

	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, []string{fmt.Sprintf("%d", line), fmt.Sprintf("%02d", equiv[line])})
	}
	return Table{
		Title:   "Line equivalence",
		Headers: []string{"Source line", "Instruction address"},
		Rows:    rows,
	}
}

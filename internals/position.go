package internals

// Position maps a zero-based character offset into 1-based line and column
// numbers, used by the cli when rendering syntax errors for humans.
func Position(content string, index int) (row, col int) {
	row, col = 1, 1
	for i, char := range []rune(content) {
		if i >= index {
			break
		}
		if char == '\n' {
			row++
			col = 1
		} else {
			col++
		}
	}
	return row, col
}

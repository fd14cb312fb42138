package canvas

// BoxStyle holds the runes of a rectangle outline.
type BoxStyle struct {
	TopLeft, TopRight, BottomLeft, BottomRight rune
	Horizontal, Vertical                       rune
}

// Box styles.
var (
	SolidBox  = BoxStyle{'┌', '┐', '└', '┘', '─', '│'}
	DashedBox = BoxStyle{'┌', '┐', '└', '┘', '┄', '┆'}
	DoubleBox = BoxStyle{'╔', '╗', '╚', '╝', '═', '║'}
)

// CharacterMerger resolves two runes drawn into the same cell.
type CharacterMerger struct {
	mergeMap map[mergePair]rune
}

type mergePair struct {
	existing rune
	new      rune
}

// NewCharacterMerger creates a merger with the wire crossing rules.
func NewCharacterMerger() *CharacterMerger {
	m := &CharacterMerger{mergeMap: make(map[mergePair]rune)}
	m.initializeMergeRules()
	return m
}

// Merge combines existing and new. Unknown pairs keep the existing rune.
func (m *CharacterMerger) Merge(existing, new rune) rune {
	if existing == ' ' || existing == 0 {
		return new
	}
	if existing == new {
		return existing
	}
	if merged, ok := m.mergeMap[mergePair{existing, new}]; ok {
		return merged
	}
	if merged, ok := m.mergeMap[mergePair{new, existing}]; ok {
		return merged
	}
	return existing
}

func (m *CharacterMerger) initializeMergeRules() {
	m.mergeMap[mergePair{'─', '│'}] = '┼'

	// rounded corners gain a branch when a straight wire runs through them
	m.mergeMap[mergePair{'╭', '─'}] = '┬'
	m.mergeMap[mergePair{'╮', '─'}] = '┬'
	m.mergeMap[mergePair{'╰', '─'}] = '┴'
	m.mergeMap[mergePair{'╯', '─'}] = '┴'
	m.mergeMap[mergePair{'╭', '│'}] = '├'
	m.mergeMap[mergePair{'╰', '│'}] = '├'
	m.mergeMap[mergePair{'╮', '│'}] = '┤'
	m.mergeMap[mergePair{'╯', '│'}] = '┤'

	m.mergeMap[mergePair{'┬', '│'}] = '┼'
	m.mergeMap[mergePair{'┴', '│'}] = '┼'
	m.mergeMap[mergePair{'├', '─'}] = '┼'
	m.mergeMap[mergePair{'┤', '─'}] = '┼'

	// wires landing on a bus
	m.mergeMap[mergePair{'━', '│'}] = '┿'
}

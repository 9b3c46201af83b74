package hierarchy

// numLevels covers Section (0) through Dash (10).
const numLevels = 11

// ParseContext is the mutable per-section parse state: the current node
// at each level, the last sequence number seen per level, the active
// article number and the special-block mode. It lives for exactly one
// section's parse.
//
// All mutation goes through the named transitions below; nothing else
// touches the slots.
type ParseContext struct {
	// stack holds the current node's arena index per level, -1 for none.
	stack [numLevels]int
	// lastNum is the last sequence number opened per level.
	lastNum [numLevels]int

	// curArticle is the active article number, for relative references.
	curArticle *int

	special specialState
}

// specialState tracks an open special block.
type specialState struct {
	active   bool
	global   bool // appendix/glossary mode; ends only on Article-or-higher
	node     int  // arena index of the open special node
	boxBound bool
	boxID    int
}

// NewParseContext returns a context with the section node occupying
// level 0 and every other slot empty.
func NewParseContext(sectionIdx int) *ParseContext {
	ctx := &ParseContext{}
	for i := range ctx.stack {
		ctx.stack[i] = -1
	}
	ctx.stack[LevelSection] = sectionIdx
	return ctx
}

// Open makes idx the current node at lvl and records its sequence
// number when it has one.
func (c *ParseContext) Open(lvl Level, idx int, number *int) {
	c.stack[lvl] = idx
	if number != nil {
		c.lastNum[lvl] = *number
	}
}

// At returns the current node index at lvl, or -1.
func (c *ParseContext) At(lvl Level) int {
	return c.stack[lvl]
}

// LastNumber returns the last sequence number opened at lvl.
func (c *ParseContext) LastNumber(lvl Level) int {
	return c.lastNum[lvl]
}

// ResetBelow clears every stack slot at a level strictly greater than
// lvl. Counters are untouched; use ZeroCountersBelow for those.
func (c *ParseContext) ResetBelow(lvl Level) {
	for l := lvl + 1; l < numLevels; l++ {
		c.stack[l] = -1
	}
}

// ZeroCountersBelow zeroes the sequence counters strictly below lvl.
func (c *ParseContext) ZeroCountersBelow(lvl Level) {
	for l := lvl + 1; l < numLevels; l++ {
		c.lastNum[l] = 0
	}
}

// ResetAll clears everything below the section and forgets the active
// article. Global special blocks (appendix tables, glossaries) trigger
// this: whatever follows them starts from a clean slate.
func (c *ParseContext) ResetAll() {
	c.ResetBelow(LevelSection)
	for l := range c.lastNum {
		c.lastNum[l] = 0
	}
	c.curArticle = nil
}

// SetArticle records the active article number.
func (c *ParseContext) SetArticle(n int) {
	v := n
	c.curArticle = &v
}

// Article returns the active article number, or nil outside any article.
func (c *ParseContext) Article() *int {
	return c.curArticle
}

// Deepest returns the index of the deepest active node, scanning from
// Dash up. The section node at level 0 always terminates the scan.
func (c *ParseContext) Deepest() int {
	for l := numLevels - 1; l >= 0; l-- {
		if c.stack[l] >= 0 {
			return c.stack[l]
		}
	}
	return -1
}

// DeepestBelow returns the deepest active node at a level strictly
// lower than lvl; this is the parent a new node at lvl attaches to.
func (c *ParseContext) DeepestBelow(lvl Level) int {
	for l := lvl - 1; l >= 0; l-- {
		if c.stack[l] >= 0 {
			return c.stack[l]
		}
	}
	return c.stack[LevelSection]
}

// EnterSpecial opens special-block mode on node idx.
func (c *ParseContext) EnterSpecial(idx int, global, boxBound bool, boxID int) {
	c.special = specialState{
		active:   true,
		global:   global,
		node:     idx,
		boxBound: boxBound,
		boxID:    boxID,
	}
}

// ExitSpecial leaves special-block mode.
func (c *ParseContext) ExitSpecial() {
	c.special = specialState{}
}

// InSpecial reports whether a special block is open.
func (c *ParseContext) InSpecial() bool {
	return c.special.active
}

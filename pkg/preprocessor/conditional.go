package preprocessor

import "github.com/secondlife/sl-vscode-plugin-sub001/pkg/lexer"

// condStack tracks the nested conditional blocks of one file.
type condStack struct {
	stack []condFrame
}

type condFrame struct {
	parentActive bool
	taken        bool // some branch of the chain already fired
	active       bool
	sawElse      bool
	opener       lexer.Token
}

func (c *condStack) Depth() int { return len(c.stack) }

// Active reports whether tokens at this point reach the output, that is
// whether every enclosing branch is live.
func (c *condStack) Active() bool {
	if len(c.stack) == 0 {
		return true
	}
	return c.stack[len(c.stack)-1].active
}

func (c *condStack) Push(cond bool, opener lexer.Token) {
	parent := c.Active()
	active := parent && cond
	c.stack = append(c.stack, condFrame{
		parentActive: parent,
		taken:        active,
		active:       active,
		opener:       opener,
	})
}

func (c *condStack) top() *condFrame {
	if len(c.stack) == 0 {
		return nil
	}
	return &c.stack[len(c.stack)-1]
}

// Pending reports whether an #elif at this point would need its condition,
// that is whether no branch has fired yet under a live parent.
func (c *condStack) Pending() bool {
	top := c.top()
	return top != nil && top.parentActive && !top.taken
}

func (c *condStack) Elif(cond bool) {
	top := c.top()
	if top == nil {
		return
	}
	if !top.parentActive || top.taken {
		top.active = false
		return
	}
	top.active = cond
	if cond {
		top.taken = true
	}
}

func (c *condStack) Else() {
	top := c.top()
	if top == nil {
		return
	}
	top.sawElse = true
	if !top.parentActive {
		top.active = false
		return
	}
	top.active = !top.taken
	top.taken = true
}

func (c *condStack) Pop() {
	if len(c.stack) == 0 {
		return
	}
	c.stack = c.stack[:len(c.stack)-1]
}

// Unclosed returns the directives that opened the blocks still open,
// outermost first.
func (c *condStack) Unclosed() []lexer.Token {
	out := make([]lexer.Token, len(c.stack))
	for i, f := range c.stack {
		out[i] = f.opener
	}
	return out
}

package actions

// Sequence 依次执行一组动作，上一个结束后剩余的时间会传给下一个
func Sequence(steps ...Action) Action {
	return &sequence{steps: steps}
}

type sequence struct {
	steps []Action
}

func (s *sequence) Start(n Node) Instance {
	return &sequenceInstance{node: n, steps: s.steps}
}

type sequenceInstance struct {
	node  Node
	steps []Action
	index int
	cur   Instance
}

func (s *sequenceInstance) Step(dt float64) (bool, float64) {
	for s.index < len(s.steps) {
		if s.cur == nil {
			s.cur = s.steps[s.index].Start(s.node)
		}
		done, overflow := s.cur.Step(dt)
		if !done {
			return false, 0
		}
		s.index++
		s.cur = nil
		dt = overflow
	}
	return true, dt
}

// RepeatForever 无限循环执行一组动作（例如选中时的闪烁）
// 只能通过 Runner.Cancel 或在同一轨道运行新动作来停止
func RepeatForever(steps ...Action) Action {
	return &repeatForever{body: Sequence(steps...)}
}

type repeatForever struct {
	body Action
}

func (r *repeatForever) Start(n Node) Instance {
	return &repeatInstance{node: n, body: r.body}
}

type repeatInstance struct {
	node Node
	body Action
	cur  Instance
}

// maxRestartsPerStep 防止零时长循环体在一帧内无限重启
const maxRestartsPerStep = 64

func (r *repeatInstance) Step(dt float64) (bool, float64) {
	for i := 0; i < maxRestartsPerStep; i++ {
		if r.cur == nil {
			r.cur = r.body.Start(r.node)
		}
		done, overflow := r.cur.Step(dt)
		if !done {
			break
		}
		r.cur = nil
		if overflow <= 0 {
			break
		}
		dt = overflow
	}
	return false, 0
}

// CallFunc 立即调用函数的瞬时动作，通常放在 Sequence 末尾作为完成回调
func CallFunc(fn func()) Action {
	return callFunc(fn)
}

type callFunc func()

func (c callFunc) Start(Node) Instance {
	return &callInstance{fn: c}
}

type callInstance struct {
	fn     func()
	called bool
}

func (c *callInstance) Step(dt float64) (bool, float64) {
	if !c.called {
		c.called = true
		if c.fn != nil {
			c.fn()
		}
	}
	return true, dt
}

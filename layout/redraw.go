package layout

// Redrawer 只在输入变化时重新计算绘制计划，对应界面层“属性变化即重绘”的策略。
// 非并发安全。
type Redrawer struct {
	prev *Chord
	plan *Plan
}

// Update 返回 next 对应的计划；changed 表示本次是否重新计算。
// 计算失败时保留上一次的计划与输入。
func (r *Redrawer) Update(next Chord) (plan *Plan, changed bool, err error) {
	next = next.Resolved()
	if r.prev != nil && *r.prev == next {
		return r.plan, false, nil
	}
	plan, err = next.Plan()
	if err != nil {
		return r.plan, false, err
	}
	r.prev = &next
	r.plan = plan
	return plan, true, nil
}

// Plan returns the most recently computed plan, or nil.
func (r *Redrawer) Plan() *Plan { return r.plan }

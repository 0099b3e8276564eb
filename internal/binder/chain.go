package binder

type PassStats struct {
	Attempted int
	Resolved  int
	Skipped   int
}

// Pass is one binding stage over the model.
type Pass interface {
	Name() string
	Run(m *Model) (PassStats, error)
}

type StageResult struct {
	Pass             string
	Stats            PassStats
	UnresolvedBefore int
	UnresolvedAfter  int
	TypeCount        int
	Err              error
}

type PassChain struct {
	passes []Pass
}

func NewPassChain(passes ...Pass) *PassChain {
	return &PassChain{passes: passes}
}

// NewDefaultChain declares types, binds base lists and attributes, then breaks
// inheritance cycles.
func NewDefaultChain() *PassChain {
	return NewPassChain(declarePass{}, basesPass{}, attributesPass{}, cyclesPass{})
}

func (c *PassChain) Run(m *Model) []StageResult {
	if m == nil {
		return nil
	}

	var out []StageResult
	for _, p := range c.passes {
		before := m.unresolved
		stats, err := p.Run(m)
		m.refreshConstructed()
		out = append(out, StageResult{
			Pass:             p.Name(),
			Stats:            stats,
			UnresolvedBefore: before,
			UnresolvedAfter:  m.unresolved,
			TypeCount:        len(m.Bindings),
			Err:              err,
		})
		if err != nil {
			break
		}
	}
	return out
}

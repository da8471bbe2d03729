package asmgen

// availableRegisters is the canonical six-register pool and also the
// spill victim ring.
var availableRegisters = []string{"eax", "ebx", "ecx", "edx", "esi", "edi"}

// SpillEvent is emitted whenever the allocator reclaims a register that
// still held a live temporary. It is informational, not an error.
type SpillEvent struct {
	Victim  string
	Evicted string
	Wanted  string
}

// allocator is a linear-scan register allocator over a fixed six-slot
// pool with a round-robin spill victim policy. Spilled values are
// never written back to memory: the dialect this targets assumes
// temporaries are short-lived and their producers are re-executable on
// demand.
type allocator struct {
	pool       []string
	regToTemp  map[string]string // register -> owning temp, "" if free
	tempToReg  map[string]string // temp -> register
	spillIndex int
	onSpill    func(SpillEvent)
}

func newAllocator(onSpill func(SpillEvent)) *allocator {
	pool := make([]string, len(availableRegisters))
	copy(pool, availableRegisters)
	regToTemp := make(map[string]string, len(availableRegisters))
	for _, r := range availableRegisters {
		regToTemp[r] = ""
	}
	return &allocator{
		pool:      pool,
		regToTemp: regToTemp,
		tempToReg: make(map[string]string),
		onSpill:   onSpill,
	}
}

// get returns the register bound to t, allocating one (popping the
// free pool, or spilling a round-robin victim) if none is bound yet.
func (a *allocator) get(t string) string {
	if reg, ok := a.tempToReg[t]; ok {
		return reg
	}

	if len(a.pool) > 0 {
		reg := a.pool[0]
		a.pool = a.pool[1:]
		a.bind(t, reg)
		return reg
	}

	victim := availableRegisters[a.spillIndex]
	a.spillIndex = (a.spillIndex + 1) % len(availableRegisters)
	evicted := a.regToTemp[victim]
	if evicted != "" {
		delete(a.tempToReg, evicted)
	}
	if a.onSpill != nil {
		a.onSpill(SpillEvent{Victim: victim, Evicted: evicted, Wanted: t})
	}
	a.bind(t, victim)
	return victim
}

func (a *allocator) bind(t, reg string) {
	a.tempToReg[t] = reg
	a.regToTemp[reg] = t
}

// free releases the register held by t back to the pool, if any.
func (a *allocator) free(t string) {
	reg, ok := a.tempToReg[t]
	if !ok {
		return
	}
	delete(a.tempToReg, t)
	a.regToTemp[reg] = ""
	a.pool = append(a.pool, reg)
}

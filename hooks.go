package localize

// Hook observes individual format operations. Observation only: mutating the
// context does not change what the caller or any sink receives.
type Hook interface {
	BeforeFormat(ctx *HookContext)
	AfterFormat(ctx *HookContext)
}

// HookContext carries the details of one formatted message. Result and Err
// are populated for AfterFormat only.
type HookContext struct {
	Locale string
	ID     string
	Vars   Variables
	Result string
	Err    error
	Batch  bool
}

// HookFuncs adapts bare functions to Hook. Nil functions are skipped.
type HookFuncs struct {
	Before func(ctx *HookContext)
	After  func(ctx *HookContext)
}

func (h HookFuncs) BeforeFormat(ctx *HookContext) {
	if h.Before != nil {
		h.Before(ctx)
	}
}

func (h HookFuncs) AfterFormat(ctx *HookContext) {
	if h.After != nil {
		h.After(ctx)
	}
}

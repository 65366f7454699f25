package drrip

// HookPos defines the enum of possible hooking positions.
type HookPos struct {
	Name string
}

// HookPosAgingPass is triggered after each aging pass of a miss
// transaction, with an AgingPassInfo as the item.
var HookPosAgingPass = &HookPos{Name: "AgingPass"}

// HookPosVictimCommit is triggered when a miss transaction commits its
// victim, with a VictimCommitInfo as the item.
var HookPosVictimCommit = &HookPos{Name: "VictimCommit"}

// HookCtx holds the information about the site that a hook is triggered.
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Item   interface{}
}

// Hookable defines an object that accepts Hooks.
type Hookable interface {
	// AcceptHook registers a hook.
	AcceptHook(hook Hook)
}

// Hook is a short piece of program that can be invoked by a hookable
// object.
type Hook interface {
	// Func determines what to do if the hook is invoked.
	Func(ctx HookCtx)
}

// AgingPassInfo describes one aging pass performed while searching for a
// victim.
type AgingPassInfo struct {
	Set  int
	Pass int
}

// VictimCommitInfo describes the outcome of a resolved miss transaction.
type VictimCommitInfo struct {
	Set         int
	Way         int
	Policy      string
	AgingPasses int
}

// A HookableBase provides utility functions for types that implement the
// Hookable interface.
type HookableBase struct {
	hooks []Hook
}

// AcceptHook registers a hook.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.hooks = append(h.hooks, hook)
}

// InvokeHook triggers the registered hooks.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hooks {
		hook.Func(ctx)
	}
}

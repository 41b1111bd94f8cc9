package bom

import "fmt"

// Engine orchestrates Rule objects and consolidates their output.
type Engine struct {
	rules []Rule
}

// NewEngine creates a new Engine with no rules registered.
func NewEngine() *Engine {
	return &Engine{
		rules: make([]Rule, 0),
	}
}

// Register adds a Rule to participate in the derivation.
// Rules are applied in the order they are registered.
// Register panics if a rule with the same Name() is already registered.
func (e *Engine) Register(r Rule) {
	for _, existing := range e.rules {
		if existing.Name() == r.Name() {
			panic(fmt.Sprintf("bom: rule %q already registered", r.Name()))
		}
	}
	e.rules = append(e.rules, r)
}

// Rules returns the registered rule names in order.
func (e *Engine) Rules() []string {
	names := make([]string, 0, len(e.rules))
	for _, r := range e.rules {
		names = append(names, r.Name())
	}
	return names
}

// Run applies every rule to in and returns the consolidated BOM and the warnings.
// An installation without modules yields an empty result.
func (e *Engine) Run(in Input) Result {
	if in.Totals.TotalModules <= 0 {
		return Result{BOM: []LineItem{}, Warnings: []string{}}
	}

	sink := NewSink(in.Catalog)
	for _, r := range e.rules {
		applySafely(r, &in, sink)
	}

	warnings := sink.Warnings()
	if warnings == nil {
		warnings = []string{}
	}
	return Result{
		BOM:      Consolidate(sink.Items()),
		Warnings: warnings,
	}
}

// applySafely keeps one misbehaving rule from aborting the others.
func applySafely(r Rule, in *Input, sink *Sink) {
	mark := len(sink.items)
	warnMark := len(sink.warnings)
	defer func() {
		if rec := recover(); rec != nil {
			sink.items = sink.items[:mark]
			sink.warnings = append(sink.warnings[:warnMark], fmt.Sprintf("rule %s skipped: %v", r.Name(), rec))
		}
	}()
	r.Apply(in, sink)
}

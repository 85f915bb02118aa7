package rules

import "slices"

// Provider reacts to events at one or more windows
type Provider interface {
	ProviderID() string
	OwnerID() string
	Priority() int
	Windows() []Window
	IsEnabled(ctx *EventContext) bool
	OnWindow(ctx *EventContext) error
}

// ManualProvider is a hand-written provider built from functions
type ManualProvider struct {
	ID          string
	Owner       string
	Order       int
	On          []Window
	EnabledFunc func(ctx *EventContext) bool
	Handler     func(ctx *EventContext) error
}

func (p *ManualProvider) ProviderID() string { return p.ID }
func (p *ManualProvider) OwnerID() string    { return p.Owner }
func (p *ManualProvider) Priority() int      { return p.Order }
func (p *ManualProvider) Windows() []Window  { return p.On }

// IsEnabled defaults to true when no EnabledFunc is set
func (p *ManualProvider) IsEnabled(ctx *EventContext) bool {
	if p.EnabledFunc == nil {
		return true
	}
	return p.EnabledFunc(ctx)
}

// OnWindow runs Handler if set
func (p *ManualProvider) OnWindow(ctx *EventContext) error {
	if p.Handler == nil {
		return nil
	}
	return p.Handler(ctx)
}

func listens(p Provider, w Window) bool {
	return slices.Contains(p.Windows(), w)
}

package statuses

// Builder helps create status definitions
type Builder struct {
	def *Definition
}

// NewBuilder creates a builder for a refreshing single-stack Turns status
func NewBuilder(id string) *Builder {
	return &Builder{
		def: &Definition{
			ID:           id,
			Name:         id,
			DurationType: DurationTurns,
			MaxStacks:    1,
			Stacking:     StackingRefresh,
			Triggers:     make(map[TriggerPoint]string),
		},
	}
}

// WithName sets the display name
func (b *Builder) WithName(name string) *Builder {
	b.def.Name = name
	return b
}

// WithDuration sets the duration type and default length
func (b *Builder) WithDuration(durationType DurationType, duration int) *Builder {
	b.def.DurationType = durationType
	b.def.DefaultDuration = duration
	return b
}

// Permanent makes the status last until removed
func (b *Builder) Permanent() *Builder {
	b.def.DurationType = DurationPermanent
	b.def.DefaultDuration = 0
	return b
}

// RemovedOn makes the status last until an event of eventType touches the target
func (b *Builder) RemovedOn(eventType string) *Builder {
	b.def.DurationType = DurationUntilEvent
	b.def.RemoveOnEvent = eventType
	return b
}

// WithStacking sets the stacking behaviour and stack cap
func (b *Builder) WithStacking(stacking Stacking, maxStacks int) *Builder {
	b.def.Stacking = stacking
	b.def.MaxStacks = maxStacks
	return b
}

// AsBuff marks the status as beneficial
func (b *Builder) AsBuff() *Builder {
	b.def.IsBuff = true
	return b
}

// OnTick adds a functor string run each time the status ticks
func (b *Builder) OnTick(functors string) *Builder {
	b.def.TickEffects = append(b.def.TickEffects, functors)
	return b
}

// OnTrigger sets the functor string run at a lifecycle point
func (b *Builder) OnTrigger(point TriggerPoint, functors string) *Builder {
	b.def.Triggers[point] = functors
	return b
}

// Blocking adds blocked action categories
func (b *Builder) Blocking(actions ...string) *Builder {
	b.def.BlockedActions = append(b.def.BlockedActions, actions...)
	return b
}

// WithTags adds free-form tags
func (b *Builder) WithTags(tags ...string) *Builder {
	b.def.Tags = append(b.def.Tags, tags...)
	return b
}

// Build returns the definition
func (b *Builder) Build() *Definition {
	def := *b.def
	def.Triggers = make(map[TriggerPoint]string, len(b.def.Triggers))
	for k, v := range b.def.Triggers {
		def.Triggers[k] = v
	}
	def.Normalize()
	return &def
}

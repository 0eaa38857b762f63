package draft

import "fmt"

// Config describes the fixed shape of a draft. ParticipantCount has no
// implicit default here: the engine rejects a zero value, and any
// league-size fallback is a named policy at the service boundary.
type Config struct {
	ParticipantCount int
	TotalRounds      int
	SlotTemplate     []Slot
}

// NewConfig builds a Config with the default 18-slot roster template. A
// zero totalRounds defaults to the template length so every drafted player
// has a slot or a bench seat.
func NewConfig(participantCount, totalRounds int) (Config, error) {
	template := DefaultSlotTemplate()
	if totalRounds == 0 {
		totalRounds = len(template)
	}
	cfg := Config{
		ParticipantCount: participantCount,
		TotalRounds:      totalRounds,
		SlotTemplate:     template,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the engine cannot work with.
func (c Config) Validate() error {
	if c.ParticipantCount <= 0 {
		return fmt.Errorf("%w: participant count must be positive, got %d", ErrInvalidArgument, c.ParticipantCount)
	}
	if c.TotalRounds <= 0 {
		return fmt.Errorf("%w: total rounds must be positive, got %d", ErrInvalidArgument, c.TotalRounds)
	}
	if len(c.SlotTemplate) == 0 {
		return fmt.Errorf("%w: slot template is empty", ErrInvalidArgument)
	}
	return nil
}

// TotalPicks returns the size of the pick-number space for this draft.
func (c Config) TotalPicks() int {
	return c.ParticipantCount * c.TotalRounds
}

package cpu

// Quirks selects between behaviors where historical CHIP-8 implementations
// disagree. The zero value is not the canonical behavior, use DefaultQuirks.
type Quirks struct {
	// ShiftUsesVY makes 8xy6 and 8xyE shift Vy into Vx. When disabled Vx is
	// shifted in place.
	ShiftUsesVY bool

	// LogicResetsVF makes 8xy1, 8xy2 and 8xy3 clear VF.
	LogicResetsVF bool

	// LoadStoreIncrementI makes Fx55 and Fx65 advance I by x+1.
	LoadStoreIncrementI bool

	// ClipSprites drops sprite pixels past the right and bottom screen edge.
	// When disabled they wrap around to the opposite edge.
	ClipSprites bool
}

// DefaultQuirks returns the canonical behavior of the processor.
func DefaultQuirks() Quirks {
	return Quirks{
		ShiftUsesVY:         true,
		LogicResetsVF:       true,
		LoadStoreIncrementI: true,
		ClipSprites:         true,
	}
}

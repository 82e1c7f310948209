package credential

// Generator satisfies usecase.IDGenerator with crypto/rand backed codes.
type Generator struct{}

func (Generator) TrackingID() (string, error)       { return NewTrackingID() }
func (Generator) VerificationCode() (string, error) { return NewVerificationCode() }

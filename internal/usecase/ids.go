package usecase

// IDGenerator produces externally visible random identifiers.
type IDGenerator interface {
	TrackingID() (string, error)
	VerificationCode() (string, error)
}

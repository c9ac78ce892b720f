package models

// BiometryKind is the sensor type reported by the platform.
type BiometryKind string

const (
	BiometryNone        BiometryKind = ""
	BiometryFace        BiometryKind = "FaceID"
	BiometryFingerprint BiometryKind = "TouchID"
	BiometryGeneric     BiometryKind = "Biometrics"
)

// Capability is what the device reports about its biometric sensor.
// It is re-queried on every start and never persisted.
type Capability struct {
	Available bool
	Kind      BiometryKind
}

// BiometricCredentials is the stored email/password pair replayed through
// the normal login path after a successful sensor prompt.
type BiometricCredentials struct {
	Email    string
	Password string
}

// Package secretstore persists the four session secrets of the client:
// the auth token, the user profile and the biometric email/password pair.
//
// Every value is sealed with AES-GCM under a key derived from the device
// identity (see Device). Two accessibility tiers exist:
//
//   - TierWhenUnlocked: readable whenever the store is unlocked.
//   - TierWhenUnlockedThisDeviceOnly: additionally bound to this host. The
//     device fingerprint is mixed into the AEAD additional data, so a copy
//     of the database restored on another machine reads these items back as
//     absent.
//
// Get distinguishes "absent" (ok == false, err == nil) from genuine failures,
// which always match ErrStorageUnavailable. Clear is idempotent. Access to a
// given key is serialized; independent keys never block each other.
package secretstore

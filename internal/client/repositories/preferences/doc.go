// Package preferences stores non-secret client settings as plain text
// key/value rows, e.g. the biometrics-enabled marker and the software
// sensor's public key. Values are loosely typed strings; callers decide what
// a value means.
package preferences

// Package auth implements login and password changes for the single desktop
// user. Secrets are stored as bcrypt hashes once changed; the factory
// default stays plaintext until the first change.
package auth

// Package mirror maintains the mirror's content: it reads the Gradle
// services version feed, synchronizes distribution archives into the
// object store, deploys the web-app payload and removes stale keys a
// deploy left behind.
//
// Everything here runs from the command line against the store's write
// half; the serving path never mutates the store.
package mirror

// Package sessions provides wizard.SessionStore implementations: an
// in-process map for single instance deployments and a Redis store for
// multi-instance ones. Both expire sessions after a TTL measured from the
// last write.
package sessions

// Package wizard runs questionnaire sessions. It owns the per-session lock,
// feeds events to the flow reducer, persists snapshots through a
// SessionStore and drives the submission pipeline when a flow is exhausted.
// Presenters (terminal, web, JSON API) only talk to Service.
package wizard

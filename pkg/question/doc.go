// Package question defines the static Question Definition Set consumed by the
// flow controller. A Set is an ordered list of descriptors; conditional
// questions reference an earlier checkbox question and are shown only when
// that answer equals the configured boolean. Sets are built once per locale
// and treated as immutable afterwards.
package question

// Package answer models the Answer Store: the mapping from question id to the
// value a respondent supplied. Values are either text or boolean. Stores are
// copy-on-write so every flow step works against an immutable snapshot.
package answer

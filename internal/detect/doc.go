// Package detect finds named entities worth masking before text leaves the
// process.
//
// Two detector families divide the entity categories between them: a
// statistical NER model covers people and places, and a regex rule table
// covers organizations, dates, and URLs. NewMulti composes them, tolerating
// individual detector failures, so the masker sees one flat candidate list:
//
//	d := detect.NewMulti(logger, detect.NewProse(logger), detect.NewRuleSet())
//	entities, err := d.Detect(ctx, chunkText)
//
// Candidates are surface text plus category only. Positions are
// deliberately left to the masker, which locates occurrences with its own
// cursor so repeated mentions resolve to successive positions.
package detect

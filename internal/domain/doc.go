// Package domain models security incident data distilled from Nigerian
// news reporting.
//
// # Data Source
//
// Incidents originate as articles from the RSS feeds of national news
// outlets (Punch, Vanguard, Premium Times, The Guardian, Daily Trust,
// Sahara Reporters). The ingest package pulls each feed, keeps only
// security-related items, and hands the title plus summary to the
// classifier, which produces the [Incident] records defined here.
//
// # Classification Conventions
//
// Category assignment is keyword-table driven. The table is ordered, and
// order is the tie-break: an article mentioning both an abduction and a
// bombing is filed under kidnapping because that entry precedes terrorism
// in [Categories]. Articles that pass the security gate but match no
// category keywords are filed under [CategoryOther].
//
// Region extraction is a case-insensitive substring scan of the canonical
// state list, longest names first so that "Cross River" is never shadowed
// by a shorter state name. "Abuja" and "FCT" normalize to
// "Federal Capital Territory".
//
// Casualty counts come from ordered regular-expression chains of the shape
//
//	"<n> [people] killed"   or   "killed <n>"
//
// for each of killed, kidnapped, and injured. The first pattern that parses
// a non-negative base-10 integer wins; exhaustion defaults to 0. Pattern
// order is part of the contract: reordering changes which number is
// extracted when several could match.
//
// # ID Generation
//
// Incident IDs are deterministic SHA-256 hashes of
// category|region|title|occurrence time, prefixed with the category. This
// keeps store upserts and stream replay idempotent without coordination.
// See [GenerateID].
package domain

// Package metadata derives container-level tags from media file paths.
//
// The tags follow the flat key set the argument serializer understands:
// title, show, season_number, episode_id, date and comment. Only the
// first four can be inferred from a path; the others are left for richer
// sources implementing Source.
package metadata

// Package track holds the normalized view of a probed media stream.
//
// A Track is created once from ffprobe output and carries the fields the
// planner needs: kind, codec, pixel format, channel count, language, title
// and the disposition flag set. Flags is an ordered set of ffmpeg
// disposition names with a "+"-joined string form ("none" when empty).
//
// FromProbe is the only validation boundary: a stream without a codec type
// is rejected with a ValidationError instead of being guessed.
package track
